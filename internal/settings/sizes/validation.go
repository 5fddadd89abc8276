package sizes

import (
	"fmt"
	"strings"

	"github.com/adrent/billboard-admin/internal/settings/shared"
)

func normalize(s Size) (Size, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Level = strings.TrimSpace(s.Level)
	switch {
	case s.Name == "":
		return s, fmt.Errorf("size name: %w", shared.ErrRequiredField)
	case s.Level == "":
		return s, fmt.Errorf("size level: %w", shared.ErrRequiredField)
	}
	return s, nil
}
