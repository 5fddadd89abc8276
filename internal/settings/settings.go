// Package settings serves the pricing settings screen: municipalities, sizes
// and pricing levels.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/adrent/billboard-admin/internal/platform/httpx"
	"github.com/adrent/billboard-admin/internal/settings/levels"
	"github.com/adrent/billboard-admin/internal/settings/municipalities"
	settingsShared "github.com/adrent/billboard-admin/internal/settings/shared"
	"github.com/adrent/billboard-admin/internal/settings/sizes"
	"github.com/adrent/billboard-admin/internal/shared"
)

// Overview is everything the settings screen shows on open.
type Overview struct {
	Municipalities []municipalities.Municipality `json:"municipalities"`
	Sizes          []sizes.Size                  `json:"sizes"`
	Levels         []levels.Level                `json:"levels"`
}

// Services groups the settings services.
type Services struct {
	Municipalities *municipalities.Service
	Sizes          *sizes.Service
	Levels         *levels.Service
}

// LoadOverview reads the three lists concurrently.
func (s Services) LoadOverview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Municipalities, err = s.Municipalities.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Sizes, err = s.Sizes.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Levels, err = s.Levels.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// Catalog names accepted by SyncCatalog.
const (
	CatalogMunicipalities = "municipalities"
	CatalogSizes          = "sizes"
)

// SyncCatalog syncs the named catalogues (all when none are named) from the
// billboards table and returns how many rows each added. Municipalities run
// before sizes.
func (s Services) SyncCatalog(ctx context.Context, catalogs ...string) (map[string]int, error) {
	want := func(name string) bool {
		return len(catalogs) == 0 || slices.Contains(catalogs, name)
	}
	added := map[string]int{}
	if want(CatalogMunicipalities) {
		res, err := s.Municipalities.Sync(ctx)
		if err != nil {
			return added, err
		}
		added[CatalogMunicipalities] = len(res.Added)
	}
	if want(CatalogSizes) {
		res, err := s.Sizes.Sync(ctx)
		if err != nil {
			return added, err
		}
		added[CatalogSizes] = len(res.Added)
	}
	return added, nil
}

type Handler struct {
	logger   *slog.Logger
	services Services
}

func NewHandler(logger *slog.Logger, services Services) *Handler {
	return &Handler{logger: logger, services: services}
}

// MountRoutes registers the overview and the per-catalogue routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.overview)
	r.Route("/municipalities", municipalities.NewHandler(h.logger, h.services.Municipalities).MountRoutes)
	r.Route("/sizes", sizes.NewHandler(h.logger, h.services.Sizes).MountRoutes)
	r.Route("/levels", levels.NewHandler(h.logger, h.services.Levels).MountRoutes)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	screen := shared.NewScreen(r.Context())
	defer screen.Teardown()

	out, err := shared.Load(screen, h.services.LoadOverview)
	if err != nil {
		if errors.Is(err, shared.ErrScreenClosed) {
			err = settingsShared.ErrLoadFailed
		}
		settingsShared.Respond(w, h.logger, "load settings", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
