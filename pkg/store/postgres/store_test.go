package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/madspark-dev/madspark/pkg/cache"
)

// newTestStore starts a disposable Postgres container, runs the package's
// embedded migrations against it, and returns a ready Store.
func newTestStore(t *testing.T) *Store {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	store, err := New(ctx, Config{
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStore_SetThenGet_RoundTripsEntry(t *testing.T) {
	store := newTestStore(t)

	entry := cache.Entry{
		Record: map[string]interface{}{"title": "Foldable oven"},
		Meta:   map[string]interface{}{"provider": "local"},
	}
	require.NoError(t, store.Set(context.Background(), "key-1", entry, time.Minute))

	got, found, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Foldable oven", got.Record["title"])
	assert.Equal(t, "local", got.Meta["provider"])
}

func TestStore_Get_MissingKeyReturnsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Get_ExpiredEntryReturnsNotFound(t *testing.T) {
	store := newTestStore(t)

	entry := cache.Entry{Record: map[string]interface{}{"title": "stale"}}
	require.NoError(t, store.Set(context.Background(), "key-expired", entry, -time.Minute))

	_, found, err := store.Get(context.Background(), "key-expired")
	require.NoError(t, err)
	assert.False(t, found, "an entry whose ttl has already elapsed must not be returned")
}

func TestStore_Set_OverwritesExistingKey(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(context.Background(), "key-2",
		cache.Entry{Record: map[string]interface{}{"v": float64(1)}}, time.Minute))
	require.NoError(t, store.Set(context.Background(), "key-2",
		cache.Entry{Record: map[string]interface{}{"v": float64(2)}}, time.Minute))

	got, found, err := store.Get(context.Background(), "key-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(2), got.Record["v"])
}
