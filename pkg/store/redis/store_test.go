package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/madspark-dev/madspark/pkg/cache"
)

func newTestStore(t *testing.T) *Store {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := New(ctx, Config{Addr: trimRedisScheme(connStr)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// trimRedisScheme strips the "redis://" scheme go-redis's Options.Addr
// doesn't expect, since the container reports a full connection URL.
func trimRedisScheme(connStr string) string {
	const scheme = "redis://"
	if len(connStr) > len(scheme) && connStr[:len(scheme)] == scheme {
		return connStr[len(scheme):]
	}
	return connStr
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
	require.NoError(t, store.Set(context.Background(), "key-expired", entry, 10*time.Millisecond))

	time.Sleep(50 * time.Millisecond)

	_, found, err := store.Get(context.Background(), "key-expired")
	require.NoError(t, err)
	assert.False(t, found, "redis expires the key itself once the ttl elapses")
}

func TestNew_AppliesDefaultKeyPrefixWhenUnset(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := New(ctx, Config{Addr: trimRedisScheme(connStr)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, "madspark:cache:", store.prefix)
}
