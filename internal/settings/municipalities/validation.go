package municipalities

import (
	"fmt"
	"strings"

	"github.com/adrent/billboard-admin/internal/settings/shared"
)

func (s *Service) validate(m Municipality) (Municipality, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Code = strings.TrimSpace(m.Code)
	if m.Name == "" {
		return m, fmt.Errorf("municipality name: %w", shared.ErrRequiredField)
	}
	if m.Code == "" {
		return m, fmt.Errorf("municipality code: %w", shared.ErrRequiredField)
	}
	return m, nil
}

// AutoCode is the code given to the n-th municipality created by a sync.
func AutoCode(n int) string {
	return fmt.Sprintf("AUTO-%03d", n)
}
