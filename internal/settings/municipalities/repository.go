package municipalities

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
	List(ctx context.Context) ([]Municipality, error)
	Create(ctx context.Context, m Municipality) (Municipality, error)
	CreateMany(ctx context.Context, ms []Municipality) ([]Municipality, error)
	Update(ctx context.Context, id int64, m Municipality) (Municipality, error)
	Delete(ctx context.Context, id int64) error
	BillboardMunicipalities(ctx context.Context) ([]string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Municipality, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(name, ''), COALESCE(code, '') FROM municipalities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Municipality
	for rows.Next() {
		var m Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.Code); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, m Municipality) (Municipality, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO municipalities (name, code) VALUES ($1, $2) RETURNING id`, m.Name, m.Code).Scan(&m.ID)
	if err != nil {
		return Municipality{}, mapWriteErr(err)
	}
	return m, nil
}

// CreateMany inserts all rows in one transaction.
func (r *repository) CreateMany(ctx context.Context, ms []Municipality) ([]Municipality, error) {
	out := make([]Municipality, len(ms))
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range ms {
			batch.Queue(`INSERT INTO municipalities (name, code) VALUES ($1, $2) RETURNING id`, m.Name, m.Code)
		}
		results := tx.SendBatch(ctx, batch)
		for i, m := range ms {
			if err := results.QueryRow().Scan(&m.ID); err != nil {
				_ = results.Close()
				return err
			}
			out[i] = m
		}
		return results.Close()
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, id int64, m Municipality) (Municipality, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE municipalities SET name = $2, code = $3 WHERE id = $1`, id, m.Name, m.Code)
	if err != nil {
		return Municipality{}, mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return Municipality{}, shared.ErrNotFound
	}
	m.ID = id
	return m, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM municipalities WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) BillboardMunicipalities(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT "Municipality" FROM billboards WHERE "Municipality" IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func mapWriteErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrDuplicate, db.Message(err))
	}
	return fmt.Errorf("%w: %s", shared.ErrWriteFailed, db.Message(err))
}
