package mirror

import "errors"

var (
	ErrAlreadyStarted  = errors.New("coordinator was already started")
	ErrUnknownSnapshot = errors.New("no snapshot with that id")
	ErrNotHOTP         = errors.New("snapshot is not an HOTP code")
	ErrStale           = errors.New("snapshot is stale")
	ErrPersist         = errors.New("failed to persist snapshot cache")
	ErrLoad            = errors.New("failed to load snapshot cache")
)
