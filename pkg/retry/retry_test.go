package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/llmprovider"
	"github.com/madspark-dev/madspark/pkg/llmprovider/mockprovider"
	"github.com/madspark-dev/madspark/pkg/retry"
)

func fastRetryConfig() config.RetryConfig {
	return config.RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mockprovider.NewMockProvider(ctrl)

	want := llmprovider.Response{JSON: `{"ok":true}`, ProviderName: "mock"}
	gomock.InOrder(
		provider.EXPECT().GenerateStructured(gomock.Any(), gomock.Any()).
			Return(llmprovider.Response{}, errors.New("transient backend error")),
		provider.EXPECT().GenerateStructured(gomock.Any(), gomock.Any()).
			Return(llmprovider.Response{}, errors.New("transient backend error")),
		provider.EXPECT().GenerateStructured(gomock.Any(), gomock.Any()).
			Return(want, nil),
	)

	got, err := retry.Do(context.Background(), fastRetryConfig(), func(ctx context.Context) (llmprovider.Response, error) {
		return provider.GenerateStructured(ctx, llmprovider.Request{Prompt: "x"})
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDo_ReturnsLastErrorWhenRetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mockprovider.NewMockProvider(ctrl)

	cfg := config.RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond}
	provider.EXPECT().GenerateStructured(gomock.Any(), gomock.Any()).
		Return(llmprovider.Response{}, errors.New("backend unavailable")).
		Times(3) // initial attempt + 2 retries

	_, err := retry.Do(context.Background(), cfg, func(ctx context.Context) (llmprovider.Response, error) {
		return provider.GenerateStructured(ctx, llmprovider.Request{Prompt: "x"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestDo_DoesNotRetryValidationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mockprovider.NewMockProvider(ctrl)

	provider.EXPECT().GenerateStructured(gomock.Any(), gomock.Any()).
		Return(llmprovider.Response{}, errs.NewValidationError("prompt", "must not be empty")).
		Times(1)

	_, err := retry.Do(context.Background(), fastRetryConfig(), func(ctx context.Context) (llmprovider.Response, error) {
		return provider.GenerateStructured(ctx, llmprovider.Request{})
	})

	require.Error(t, err)
	var valErr *errs.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestDo_DoesNotRetrySchemaValidationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mockprovider.NewMockProvider(ctrl)

	provider.EXPECT().GenerateStructured(gomock.Any(), gomock.Any()).
		Return(llmprovider.Response{}, errs.NewSchemaValidationError("title", "must not be empty")).
		Times(1)

	_, err := retry.Do(context.Background(), fastRetryConfig(), func(ctx context.Context) (llmprovider.Response, error) {
		return provider.GenerateStructured(ctx, llmprovider.Request{})
	})

	require.Error(t, err)
	var schemaErr *errs.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
}
