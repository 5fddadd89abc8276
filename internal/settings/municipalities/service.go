package municipalities

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

func (s *Service) List(ctx context.Context) ([]Municipality, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: municipalities: %v", shared.ErrLoadFailed, err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, m Municipality) (Municipality, error) {
	m, err := s.validate(m)
	if err != nil {
		return Municipality{}, err
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return Municipality{}, err
	}
	shared.Audit(ctx, s.audit, s.logger, "municipality.create", "municipalities", created.ID, map[string]any{"name": created.Name, "code": created.Code})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, m Municipality) (Municipality, error) {
	if id <= 0 {
		return Municipality{}, shared.ErrInvalidID
	}
	m, err := s.validate(m)
	if err != nil {
		return Municipality{}, err
	}
	updated, err := s.repo.Update(ctx, id, m)
	if err != nil {
		return Municipality{}, err
	}
	shared.Audit(ctx, s.audit, s.logger, "municipality.update", "municipalities", id, map[string]any{"name": updated.Name, "code": updated.Code})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	shared.Audit(ctx, s.audit, s.logger, "municipality.delete", "municipalities", id, nil)
	return nil
}

// Sync creates a municipality for every billboard municipality name not yet
// known. Codes continue from the current municipality count.
func (s *Service) Sync(ctx context.Context) (SyncResult, error) {
	candidates, err := s.repo.BillboardMunicipalities(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: billboards: %v", shared.ErrLoadFailed, err)
	}
	existing, err := s.List(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	names := make([]string, 0, len(existing))
	for _, m := range existing {
		names = append(names, m.Name)
	}

	fresh := shared.NewNames(candidates, names)
	if len(fresh) == 0 {
		return SyncResult{Added: []Municipality{}}, nil
	}
	toInsert := make([]Municipality, 0, len(fresh))
	for i, name := range fresh {
		toInsert = append(toInsert, Municipality{Name: name, Code: AutoCode(len(existing) + i + 1)})
	}
	added, err := s.repo.CreateMany(ctx, toInsert)
	if err != nil {
		return SyncResult{}, err
	}
	for _, m := range added {
		shared.Audit(ctx, s.audit, s.logger, "municipality.sync", "municipalities", m.ID, map[string]any{"name": m.Name, "code": m.Code})
	}
	return SyncResult{Added: added}, nil
}
