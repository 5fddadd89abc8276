package shared

import (
	"context"
	"log/slog"
	"strconv"

	internalShared "github.com/adrent/billboard-admin/internal/shared"
)

// AuditRecorder persists audit trail records.
type AuditRecorder interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// Audit records a settings change. A nil recorder is a no-op and failures
// are logged, never returned.
func Audit(ctx context.Context, rec AuditRecorder, logger *slog.Logger, action, entity string, id int64, meta map[string]any) {
	if rec == nil {
		return
	}
	err := rec.Record(ctx, internalShared.AuditLog{
		Action:   action,
		Entity:   entity,
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
	if err != nil && logger != nil {
		logger.Error("audit settings change", slog.String("entity", entity), slog.Any("error", err))
	}
}
