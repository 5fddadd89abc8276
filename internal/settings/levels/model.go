package levels

import "time"

// Level is a pricing tier. Sizes and pricing rows refer to it by name.
type Level struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// AddingLevel is the new-level dialog.
type AddingLevel struct{}

// EditingLevel is the rename dialog for Level.
type EditingLevel struct {
	Level Level
}

// DeletingLevel is the delete confirmation for Level.
type DeletingLevel struct {
	Level Level
}

func (AddingLevel) DialogKind() string   { return "adding_level" }
func (EditingLevel) DialogKind() string  { return "editing_level" }
func (DeletingLevel) DialogKind() string { return "deleting_level" }
