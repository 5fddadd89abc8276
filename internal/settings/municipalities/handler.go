package municipalities

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

// MountRoutes registers municipality routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/sync", h.Sync)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type payload struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		shared.Respond(w, h.logger, "list municipalities", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"municipalities": items})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in payload
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), Municipality{Name: in.Name, Code: in.Code})
	if err != nil {
		shared.Respond(w, h.logger, "create municipality", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		shared.Respond(w, h.logger, "update municipality", err)
		return
	}
	var in payload
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, Municipality{Name: in.Name, Code: in.Code})
	if err != nil {
		shared.Respond(w, h.logger, "update municipality", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		shared.Respond(w, h.logger, "delete municipality", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.Respond(w, h.logger, "delete municipality", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Sync(r.Context())
	if err != nil {
		shared.Respond(w, h.logger, "sync municipalities", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
