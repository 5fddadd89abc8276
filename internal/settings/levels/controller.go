package levels

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adrent/billboard-admin/internal/shared"
)

// Outcome reports a submitted level dialog.
type Outcome struct {
	Level   *Level  `json:"level,omitempty"`
	Message string  `json:"message"`
	Dialog  string  `json:"dialog"`
	Levels  []Level `json:"levels,omitempty"`
}

// Controller holds the levels tab of the settings screen.
type Controller struct {
	screen  *shared.Screen
	service *Service
	logger  *slog.Logger
	levels  []Level
}

func NewController(screen *shared.Screen, service *Service) *Controller {
	return &Controller{screen: screen, service: service, logger: service.logger}
}

// Load reads the level list under the screen context.
func (c *Controller) Load() ([]Level, error) {
	out, err := shared.Load(c.screen, c.service.List)
	if err != nil {
		return nil, err
	}
	c.levels = out
	return out, nil
}

// Find returns a loaded level by id.
func (c *Controller) Find(id int64) (Level, bool) {
	for _, l := range c.levels {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

func (c *Controller) OpenAdd()               { c.screen.Open(AddingLevel{}) }
func (c *Controller) OpenEdit(level Level)   { c.screen.Open(EditingLevel{Level: level}) }
func (c *Controller) OpenDelete(level Level) { c.screen.Open(DeletingLevel{Level: level}) }
func (c *Controller) Cancel()                { c.screen.Close() }
func (c *Controller) Dialog() shared.Dialog  { return c.screen.Dialog() }

// SubmitAdd saves the new-level dialog.
func (c *Controller) SubmitAdd(name string) (Outcome, error) {
	if _, ok := c.screen.Dialog().(AddingLevel); !ok {
		return c.failed(ErrDialogNotOpen)
	}
	level, err := c.service.Create(c.screen.Context(), name)
	if err != nil {
		return c.failed(err)
	}
	return c.succeeded(&level, "level added")
}

// SubmitEdit saves the rename dialog.
func (c *Controller) SubmitEdit(name string) (Outcome, error) {
	editing, ok := c.screen.Dialog().(EditingLevel)
	if !ok {
		return c.failed(ErrDialogNotOpen)
	}
	level, err := c.service.Rename(c.screen.Context(), editing.Level, name)
	if err != nil {
		return c.failed(err)
	}
	return c.succeeded(&level, "level updated")
}

// ConfirmDelete runs the delete the confirmation dialog was opened for.
func (c *Controller) ConfirmDelete() (Outcome, error) {
	deleting, ok := c.screen.Dialog().(DeletingLevel)
	if !ok {
		return c.failed(ErrDialogNotOpen)
	}
	if err := c.service.Delete(c.screen.Context(), deleting.Level); err != nil {
		return c.failed(err)
	}
	return c.succeeded(nil, "level and related data deleted")
}

func (c *Controller) succeeded(level *Level, msg string) (Outcome, error) {
	c.screen.Close()
	out := Outcome{Level: level, Message: msg, Dialog: c.screen.Dialog().DialogKind()}
	levels, err := c.Load()
	if err != nil {
		if !errors.Is(err, shared.ErrScreenClosed) && !errors.Is(err, context.Canceled) {
			c.logger.Warn("reload levels", slog.Any("error", err))
		}
		return out, nil
	}
	out.Levels = levels
	return out, nil
}

func (c *Controller) failed(err error) (Outcome, error) {
	return Outcome{Message: err.Error(), Dialog: c.screen.Dialog().DialogKind()}, err
}
