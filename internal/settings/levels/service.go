package levels

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adrent/billboard-admin/internal/settings/shared"
)

type Service struct {
	repo   Repository
	audit  shared.AuditRecorder
	logger *slog.Logger
}

func NewService(repo Repository, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Level, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: levels: %v", shared.ErrLoadFailed, err)
	}
	return out, nil
}

// Get finds a level by id.
func (s *Service) Get(ctx context.Context, id int64) (Level, error) {
	if id <= 0 {
		return Level{}, shared.ErrInvalidID
	}
	all, err := s.List(ctx)
	if err != nil {
		return Level{}, err
	}
	for _, l := range all {
		if l.ID == id {
			return l, nil
		}
	}
	return Level{}, shared.ErrNotFound
}

// Create adds a level. The name is trimmed and upper-cased first.
func (s *Service) Create(ctx context.Context, raw string) (Level, error) {
	name, err := NormalizeName(raw)
	if err != nil {
		return Level{}, err
	}
	all, err := s.List(ctx)
	if err != nil {
		return Level{}, err
	}
	if err := checkUnique(all, name, 0); err != nil {
		return Level{}, err
	}
	created, err := s.repo.Create(ctx, name)
	if err != nil {
		return Level{}, err
	}
	shared.Audit(ctx, s.audit, s.logger, "level.create", "levels", created.ID, map[string]any{"name": name})
	return created, nil
}

// Rename changes the level name and carries it over to sizes and pricing.
func (s *Service) Rename(ctx context.Context, level Level, raw string) (Level, error) {
	name, err := NormalizeName(raw)
	if err != nil {
		return Level{}, err
	}
	all, err := s.List(ctx)
	if err != nil {
		return Level{}, err
	}
	if err := checkUnique(all, name, level.ID); err != nil {
		return Level{}, err
	}
	if err := s.repo.Rename(ctx, level, name); err != nil {
		return Level{}, err
	}
	shared.Audit(ctx, s.audit, s.logger, "level.rename", "levels", level.ID, map[string]any{"from": level.Name, "to": name})
	level.Name = name
	return level, nil
}

// Delete removes the level together with its pricing, sizes and categories.
func (s *Service) Delete(ctx context.Context, level Level) error {
	if level.ID <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, level); err != nil {
		return err
	}
	shared.Audit(ctx, s.audit, s.logger, "level.delete", "levels", level.ID, map[string]any{"name": level.Name})
	return nil
}
