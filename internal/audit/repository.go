package audit

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/adrent/billboard-admin/internal/platform/db"
)

type repository struct {
	db db.DBTX
}

// NewRepository reads audit_logs through conn.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const windowSQL = `SELECT occurred_at, actor, action, entity, entity_id, COALESCE(meta, 'null'::jsonb)
FROM audit_logs
WHERE ($1::timestamptz IS NULL OR occurred_at >= $1)
  AND ($2::timestamptz IS NULL OR occurred_at < $2)
  AND ($3::text IS NULL OR actor = $3)
  AND ($4::text IS NULL OR entity = $4)
  AND ($5::text IS NULL OR action = $5)
ORDER BY occurred_at DESC
OFFSET $6 LIMIT $7`

func (r *repository) Window(ctx context.Context, arg WindowParams) ([]TimelineRow, error) {
	rows, err := r.db.Query(ctx, windowSQL, arg.FromAt, arg.ToAt, arg.Actor, arg.Entity, arg.Action, arg.Offset, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (TimelineRow, error) {
		var (
			out  TimelineRow
			meta []byte
		)
		if err := row.Scan(&out.At, &out.Actor, &out.Action, &out.Entity, &out.EntityID, &meta); err != nil {
			return TimelineRow{}, err
		}
		if string(meta) != "null" {
			out.Meta = meta
		}
		return out, nil
	})
}
