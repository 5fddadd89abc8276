package levels

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrent/billboard-admin/internal/platform/db"
	"github.com/adrent/billboard-admin/internal/settings/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Level, error)
	Create(ctx context.Context, name string) (Level, error)
	Rename(ctx context.Context, level Level, name string) error
	Delete(ctx context.Context, level Level) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Level, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(name, ''), created_at FROM levels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Level, error) {
		var (
			l       Level
			created pgtype.Timestamptz
		)
		if err := row.Scan(&l.ID, &l.Name, &created); err != nil {
			return Level{}, err
		}
		if created.Valid {
			t := created.Time
			l.CreatedAt = &t
		}
		return l, nil
	})
}

func (r *repository) Create(ctx context.Context, name string) (Level, error) {
	l := Level{Name: name}
	var created pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `INSERT INTO levels (name) VALUES ($1) RETURNING id, created_at`, name).Scan(&l.ID, &created)
	if err != nil {
		return Level{}, writeErr(err)
	}
	if created.Valid {
		t := created.Time
		l.CreatedAt = &t
	}
	return l, nil
}

// Rename updates the level and every size and pricing row that names it.
func (r *repository) Rename(ctx context.Context, level Level, name string) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE levels SET name = $2 WHERE id = $1`, level.ID, name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `UPDATE sizes SET level = $2 WHERE level = $1`, level.Name, name); err != nil {
			return fmt.Errorf("sizes: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE pricing SET billboard_level = $2 WHERE billboard_level = $1`, level.Name, name); err != nil {
			return fmt.Errorf("pricing: %w", err)
		}
		return nil
	})
	return writeErr(err)
}

// Delete removes pricing, sizes and pricing categories of the level, then the level.
func (r *repository) Delete(ctx context.Context, level Level) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM pricing WHERE billboard_level = $1`, level.Name); err != nil {
			return fmt.Errorf("pricing: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sizes WHERE level = $1`, level.Name); err != nil {
			return fmt.Errorf("sizes: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pricing_categories WHERE level = $1`, level.Name); err != nil {
			return fmt.Errorf("pricing categories: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM levels WHERE id = $1`, level.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return writeErr(err)
}

func writeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrNotFound):
		return err
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", shared.ErrDuplicate, db.Message(err))
	default:
		return fmt.Errorf("%w: %s", shared.ErrWriteFailed, db.Message(err))
	}
}
