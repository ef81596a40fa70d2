package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/otpmirror/pkg/kvstore"
)

// Storage is a kvstore.Store backed by Redis. Every key is stored under a
// common prefix so several nodes can share one database.
type Storage struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

var _ kvstore.Store = (*Storage)(nil)

// NewStorage wraps client. Keys are written as prefix+key.
func NewStorage(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: client, prefix: prefix, scanBatchSize: 100}
}

// NewStorageWithConfig takes the prefix and scan batch size from cfg.
func NewStorageWithConfig(client redis.UniversalClient, cfg Config) *Storage {
	s := NewStorage(client, cfg.KeyPrefix)
	if cfg.ScanBatchSize > 0 {
		s.scanBatchSize = cfg.ScanBatchSize
	}
	return s
}

// Get maps redis.Nil to kvstore.ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kvstore.ErrNotFound
	}
	return val, err
}

// Set stores value without expiration.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Del(ctx, s.prefix+key).Err()
}

// Keys lists stored keys without the prefix, using SCAN so large databases
// are not blocked.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Healthcheck returns a check for httpserver.HealthCheckHandler that fails
// with ErrUnavailable when the server does not answer a ping.
func (s *Storage) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := s.db.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrUnavailable, err)
		}
		return nil
	}
}

// Close terminates the Redis connection.
func (s *Storage) Close() error {
	return s.db.Close()
}
