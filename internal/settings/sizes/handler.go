package sizes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adrent/billboard-admin/internal/platform/httpx"
	"github.com/adrent/billboard-admin/internal/settings/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers size routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/sync", h.Sync)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type payload struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		shared.Respond(w, h.logger, "list sizes", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sizes": items})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in payload
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), Size{Name: in.Name, Level: in.Level})
	if err != nil {
		shared.Respond(w, h.logger, "create size", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		shared.Respond(w, h.logger, "update size", err)
		return
	}
	var in payload
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, Size{Name: in.Name, Level: in.Level})
	if err != nil {
		shared.Respond(w, h.logger, "update size", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		shared.Respond(w, h.logger, "delete size", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.Respond(w, h.logger, "delete size", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Sync(r.Context())
	if err != nil {
		shared.Respond(w, h.logger, "sync sizes", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
