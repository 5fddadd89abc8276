package levels

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adrent/billboard-admin/internal/platform/httpx"
	settingsShared "github.com/adrent/billboard-admin/internal/settings/shared"
	"github.com/adrent/billboard-admin/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers level routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.rename)
	r.Delete("/{id}", h.delete)
}

type namePayload struct {
	Name string `json:"name"`
}

func (h *Handler) controller(r *http.Request) (*Controller, *shared.Screen) {
	screen := shared.NewScreen(r.Context())
	return NewController(screen, h.service), screen
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()
	levels, err := ctrl.Load()
	if err != nil {
		h.fail(w, "list levels", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"levels": levels})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in namePayload
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctrl, screen := h.controller(r)
	defer screen.Teardown()
	ctrl.OpenAdd()
	out, err := ctrl.SubmitAdd(in.Name)
	if err != nil {
		h.fail(w, "create level", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	var in namePayload
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctrl, screen := h.controller(r)
	defer screen.Teardown()
	level, ok := h.find(w, r, ctrl)
	if !ok {
		return
	}
	ctrl.OpenEdit(level)
	out, err := ctrl.SubmitEdit(in.Name)
	if err != nil {
		h.fail(w, "rename level", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()
	level, ok := h.find(w, r, ctrl)
	if !ok {
		return
	}
	ctrl.OpenDelete(level)
	out, err := ctrl.ConfirmDelete()
	if err != nil {
		h.fail(w, "delete level", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request, ctrl *Controller) (Level, bool) {
	id, err := settingsShared.ParseID(r)
	if err != nil {
		h.fail(w, "find level", err)
		return Level{}, false
	}
	if _, err := ctrl.Load(); err != nil {
		h.fail(w, "find level", err)
		return Level{}, false
	}
	level, ok := ctrl.Find(id)
	if !ok {
		h.fail(w, "find level", settingsShared.ErrNotFound)
		return Level{}, false
	}
	return level, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, shared.ErrScreenClosed) {
		err = settingsShared.ErrLoadFailed
	}
	settingsShared.Respond(w, h.logger, msg, err)
}
