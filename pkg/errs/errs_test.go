package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_IsSentinel(t *testing.T) {
	err := NewValidationError("temperature", "out of range")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "temperature")
}

func TestConfigurationError_WrappedAtCallSite(t *testing.T) {
	base := NewConfigurationError("missing CLOUD_API_KEY")
	wrapped := fmt.Errorf("wiring providers: %w", base)
	assert.True(t, errors.Is(wrapped, ErrConfiguration))

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(wrapped, &cfgErr))
	assert.Equal(t, "missing CLOUD_API_KEY", cfgErr.Reason)
}

func TestAllProvidersFailedError_CarriesEveryAttempt(t *testing.T) {
	err := NewAllProvidersFailedError([]ProviderAttempt{
		{Provider: "local", Err: errors.New("connection refused")},
		{Provider: "cloud", Err: errors.New("401 unauthorized")},
	})
	assert.True(t, errors.Is(err, ErrAllProvidersFailed))
	assert.Contains(t, err.Error(), "local")
	assert.Contains(t, err.Error(), "cloud")
}

func TestTimeoutError_NamesStageAndDeadline(t *testing.T) {
	err := NewTimeoutError("idea_generation", 1.0)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), "idea_generation")
}

func TestFileTooLargeError_IsSentinel(t *testing.T) {
	err := NewFileTooLargeError("/tmp/big.bin", 52428801, 52428800)
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}
