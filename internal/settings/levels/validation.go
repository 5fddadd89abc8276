package levels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrent/billboard-admin/internal/settings/shared"
)

var ErrDialogNotOpen = errors.New("level dialog is not open")

// NormalizeName trims and upper-cases a level name.
func NormalizeName(raw string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("level name: %w", shared.ErrRequiredField)
	}
	return name, nil
}

// checkUnique rejects name when another level than self already uses it.
func checkUnique(all []Level, name string, self int64) error {
	for _, l := range all {
		if l.Name == name && l.ID != self {
			return fmt.Errorf("%w: level %s already exists", shared.ErrDuplicate, name)
		}
	}
	return nil
}
