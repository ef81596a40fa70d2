//go:build integration

package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/kvstore"
	"github.com/dmitrymomot/otpmirror/pkg/redis"
)

func newStorage(t *testing.T) *redis.Storage {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	s := redis.NewStorage(client, "otpmirror-test:"+uuid.NewString()+":")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	_, err := s.Get(ctx, "credentials")
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, s.Set(ctx, "credentials", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "groups", []byte(`[{"id":"g"}]`)))

	got, err := s.Get(ctx, "groups")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"g"}]`), got)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"credentials", "groups"}, keys)

	require.NoError(t, s.Delete(ctx, "groups"))
	require.NoError(t, s.Delete(ctx, "groups"))
	_, err = s.Get(ctx, "groups")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	require.NoError(t, s.Delete(ctx, "credentials"))
}

func TestStorage_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	_, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, redis.ErrEmptyKey)
	assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), redis.ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), redis.ErrEmptyKey)
}
