package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adrent/billboard-admin/internal/platform/httpx"
	"github.com/adrent/billboard-admin/internal/shared"
)

// Handler exposes the dashboard over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	screen := shared.NewScreen(r.Context())
	defer screen.Teardown()

	snap, err := shared.Load(screen, h.service.Snapshot)
	if err != nil {
		if errors.Is(err, shared.ErrScreenClosed) || errors.Is(err, context.Canceled) {
			return
		}
		h.logger.Error("load dashboard", slog.Any("error", err))
		httpx.RespondError(w, httpx.Classify(httpx.ErrUnavailable, err))
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
