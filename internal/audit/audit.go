package audit

import "context"

// Entry is one audit record. Payload is free-form and serialized to JSON by
// the sink.
type Entry struct {
	TenantID string
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Payload  map[string]any
}

// Sink accepts audit entries fire-and-forget: Record must never block the
// caller and its failures must never fail the recorded operation.
type Sink interface {
	Record(ctx context.Context, entry Entry)
}

type NopSink struct{}

func (NopSink) Record(ctx context.Context, entry Entry) {}
