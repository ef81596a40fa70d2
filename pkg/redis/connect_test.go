package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/redis"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrNoURL)

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost:6379"})
	assert.ErrorIs(t, err, redis.ErrInvalidURL)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	start := time.Now()
	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 3 * time.Second,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrNotReady)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStorage_HealthcheckUnreachable(t *testing.T) {
	t.Parallel()

	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	s := redis.NewStorage(client, "otpmirror:")
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := s.Healthcheck()(ctx)
	assert.ErrorIs(t, err, redis.ErrUnavailable)
}
