package kvstore

import "errors"

var (
	// ErrNotFound is returned by Get when the key has never been set or was deleted.
	ErrNotFound = errors.New("kvstore: key not found")
	ErrEncode   = errors.New("kvstore: failed to encode value")
	ErrDecode   = errors.New("kvstore: failed to decode value")
)
