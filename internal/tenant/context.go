package tenant

import "context"

type contextKey int

const actorKey contextKey = iota

// Actor is the authenticated caller resolved to its tenant. Every operation in
// the system is scoped by Actor.TenantID.
type Actor struct {
	UserID   string
	TenantID string
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
