package redis

import "errors"

var (
	ErrNoURL       = errors.New("redis: connection URL is empty")
	ErrInvalidURL  = errors.New("redis: invalid connection URL")
	ErrNotReady    = errors.New("redis: server not ready before timeout")
	ErrUnavailable = errors.New("redis: server unavailable")
	ErrEmptyKey    = errors.New("redis: empty key")
)
