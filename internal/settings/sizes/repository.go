package sizes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrent/billboard-admin/internal/platform/db"
	"github.com/adrent/billboard-admin/internal/settings/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Size, error)
	Create(ctx context.Context, s Size) (Size, error)
	CreateMany(ctx context.Context, ss []Size) ([]Size, error)
	Update(ctx context.Context, id int64, s Size) (Size, error)
	Delete(ctx context.Context, id int64) error
	BillboardSizes(ctx context.Context) ([]string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanSize(row pgx.CollectableRow) (Size, error) {
	var s Size
	err := row.Scan(&s.ID, &s.Name, &s.Level)
	return s, err
}

func (r *repository) List(ctx context.Context) ([]Size, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(name, ''), COALESCE(level, '') FROM sizes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanSize)
}

func (r *repository) Create(ctx context.Context, s Size) (Size, error) {
	if err := r.pool.QueryRow(ctx, `INSERT INTO sizes (name, level) VALUES ($1, $2) RETURNING id`, s.Name, s.Level).Scan(&s.ID); err != nil {
		return Size{}, writeErr(err)
	}
	return s, nil
}

func (r *repository) CreateMany(ctx context.Context, ss []Size) ([]Size, error) {
	out := make([]Size, 0, len(ss))
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, s := range ss {
			if err := tx.QueryRow(ctx, `INSERT INTO sizes (name, level) VALUES ($1, $2) RETURNING id`, s.Name, s.Level).Scan(&s.ID); err != nil {
				return err
			}
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		return nil, writeErr(err)
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Size) (Size, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE sizes SET name = $2, level = $3 WHERE id = $1`, id, s.Name, s.Level)
	if err != nil {
		return Size{}, writeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return Size{}, shared.ErrNotFound
	}
	s.ID = id
	return s, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sizes WHERE id = $1`, id)
	if err != nil {
		return writeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) BillboardSizes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT "Size" FROM billboards WHERE "Size" IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func writeErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return err
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", shared.ErrDuplicate, db.Message(err))
	default:
		return fmt.Errorf("%w: %s", shared.ErrWriteFailed, db.Message(err))
	}
}
