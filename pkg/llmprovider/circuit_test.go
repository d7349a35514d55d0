package llmprovider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madspark-dev/madspark/pkg/llmprovider"
)

type scriptedInnerProvider struct {
	fail  bool
	calls int
}

func (p *scriptedInnerProvider) GenerateStructured(ctx context.Context, req llmprovider.Request) (llmprovider.Response, error) {
	p.calls++
	if p.fail {
		return llmprovider.Response{}, errors.New("backend unavailable")
	}
	return llmprovider.Response{JSON: "{}", ProviderName: "inner"}, nil
}
func (p *scriptedInnerProvider) HealthCheck(ctx context.Context) error {
	if p.fail {
		return errors.New("unhealthy")
	}
	return nil
}
func (p *scriptedInnerProvider) ProviderName() string             { return "inner" }
func (p *scriptedInnerProvider) ModelName() string                { return "inner-model" }
func (p *scriptedInnerProvider) SupportsMultimodal() bool         { return false }
func (p *scriptedInnerProvider) CostPerToken() (float64, float64) { return 0, 0 }

type stater interface{ State() gobreaker.State }

func TestWithCircuitBreaker_PassesThroughSuccessfulCalls(t *testing.T) {
	inner := &scriptedInnerProvider{}
	p := llmprovider.WithCircuitBreaker(inner)

	resp, err := p.GenerateStructured(context.Background(), llmprovider.Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.JSON)

	st, ok := p.(stater)
	require.True(t, ok)
	assert.Equal(t, gobreaker.StateClosed, st.State())
}

func TestWithCircuitBreaker_TripsAfterThreeConsecutiveFailures(t *testing.T) {
	inner := &scriptedInnerProvider{fail: true}
	p := llmprovider.WithCircuitBreaker(inner)

	for i := 0; i < 3; i++ {
		_, err := p.GenerateStructured(context.Background(), llmprovider.Request{Prompt: "x"})
		require.Error(t, err)
	}

	_, err := p.GenerateStructured(context.Background(), llmprovider.Request{Prompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "the fourth call should be rejected by the open breaker, not reach the backend")

	st, ok := p.(stater)
	require.True(t, ok)
	assert.Equal(t, gobreaker.StateOpen, st.State())
}

func TestWithCircuitBreaker_WrapsHealthCheck(t *testing.T) {
	inner := &scriptedInnerProvider{fail: true}
	p := llmprovider.WithCircuitBreaker(inner)

	err := p.HealthCheck(context.Background())
	assert.Error(t, err)
}
