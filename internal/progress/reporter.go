package progress

import "context"

// Event types broadcast over the progress hub, one per scheduler/pipeline
// milestone a human watching a run cares about.
const (
	EventProviderStarted  = "provider_started"
	EventProviderFinished = "provider_finished"
	EventBudgetExceeded   = "budget_exceeded"
)

// Reporter is the narrow event-emitting handle the scheduler pulls off its
// context. A nil *Reporter is valid and every method on it is a no-op, so a
// run with no -progress-addr pays no cost beyond a nil check.
type Reporter struct {
	hub *Hub
}

func NewReporter(hub *Hub) *Reporter {
	return &Reporter{hub: hub}
}

func (r *Reporter) ProviderStarted(provider string) {
	if r == nil {
		return
	}
	r.hub.Broadcast(EventProviderStarted, map[string]string{"provider": provider})
}

func (r *Reporter) ProviderFinished(provider, detail string) {
	if r == nil {
		return
	}
	r.hub.Broadcast(EventProviderFinished, map[string]string{"provider": provider, "detail": detail})
}

func (r *Reporter) BudgetExceeded(detail string) {
	if r == nil {
		return
	}
	r.hub.Broadcast(EventBudgetExceeded, map[string]string{"detail": detail})
}

// Close is a placeholder hook for symmetry with the CLI driver's defer; the
// hub's connection lifecycle is already self-managed by run().
func (r *Reporter) Close() {}

type contextKey struct{}

// WithReporter attaches a Reporter to ctx so deeply nested callers (the
// scheduler's per-provider goroutines) can emit events without threading a
// parameter through every signature between here and there.
func WithReporter(ctx context.Context, r *Reporter) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the attached Reporter, or a nil *Reporter (itself
// safe to call methods on) if none was attached.
func FromContext(ctx context.Context) *Reporter {
	r, _ := ctx.Value(contextKey{}).(*Reporter)
	return r
}
