package llmprovider

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerSettings returns the Settings used for every provider's
// breaker: trip after 3 consecutive failures, half-open after 30s, allow
// 2 trial requests while half-open — the same shape kubernaut's
// notification path (test/integration/notification/suite_test.go) uses
// for per-channel delivery isolation, generalized here to LLM providers.
func CircuitBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("provider circuit breaker state change", "provider", name, "from", from, "to", to)
		},
	}
}

// breakered wraps a Provider so every GenerateStructured/HealthCheck call
// passes through a dedicated sony/gobreaker circuit breaker, letting the
// Router (C4) treat "open circuit" as a first-class health signal instead
// of re-deriving it from raw error inspection on each call.
type breakered struct {
	Provider
	cb *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps p so calls trip/recover the breaker.
func WithCircuitBreaker(p Provider) Provider {
	cb := gobreaker.NewCircuitBreaker(CircuitBreakerSettings(p.ProviderName()))
	return &breakered{Provider: p, cb: cb}
}

func (b *breakered) GenerateStructured(ctx context.Context, req Request) (Response, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.Provider.GenerateStructured(ctx, req)
	})
	if err != nil {
		return Response{}, err
	}
	return result.(Response), nil
}

func (b *breakered) HealthCheck(ctx context.Context) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.Provider.HealthCheck(ctx)
	})
	return err
}

// State exposes the breaker's current state. The Router does not read
// it: an open breaker already makes HealthCheck fail, which the Router
// treats like any other failed health check.
func (b *breakered) State() gobreaker.State {
	return b.cb.State()
}
