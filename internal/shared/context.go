package shared

import (
	"context"
	"strings"
)

type actorContextKey struct{}

// SystemActor is recorded when no operator identifies the request.
const SystemActor = "system"

// ContextWithActor stores the operator name in context.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, strings.TrimSpace(actor))
}

// ActorFromContext returns the operator name, or SystemActor.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorContextKey{}).(string)
	if actor == "" {
		return SystemActor
	}
	return actor
}
