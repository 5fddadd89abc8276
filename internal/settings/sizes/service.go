package sizes

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

func (s *Service) List(ctx context.Context) ([]Size, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: sizes: %v", shared.ErrLoadFailed, err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in Size) (Size, error) {
	in, err := normalize(in)
	if err != nil {
		return Size{}, err
	}
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return Size{}, err
	}
	shared.Audit(ctx, s.audit, s.logger, "size.create", "sizes", created.ID, map[string]any{"name": created.Name, "level": created.Level})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Size) (Size, error) {
	if id <= 0 {
		return Size{}, shared.ErrInvalidID
	}
	in, err := normalize(in)
	if err != nil {
		return Size{}, err
	}
	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Size{}, err
	}
	shared.Audit(ctx, s.audit, s.logger, "size.update", "sizes", id, map[string]any{"name": updated.Name, "level": updated.Level})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	shared.Audit(ctx, s.audit, s.logger, "size.delete", "sizes", id, nil)
	return nil
}

// Sync adds every billboard size not yet in the catalogue at DefaultLevel.
func (s *Service) Sync(ctx context.Context) (SyncResult, error) {
	candidates, err := s.repo.BillboardSizes(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: billboards: %v", shared.ErrLoadFailed, err)
	}
	existing, err := s.List(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	known := make([]string, len(existing))
	for i, size := range existing {
		known[i] = size.Name
	}

	fresh := shared.NewNames(candidates, known)
	if len(fresh) == 0 {
		return SyncResult{Added: []Size{}}, nil
	}
	batch := make([]Size, len(fresh))
	for i, name := range fresh {
		batch[i] = Size{Name: name, Level: DefaultLevel}
	}
	added, err := s.repo.CreateMany(ctx, batch)
	if err != nil {
		return SyncResult{}, err
	}
	s.logger.Info("sizes synced", slog.Int("added", len(added)))
	return SyncResult{Added: added}, nil
}
