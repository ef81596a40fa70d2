package vault

import "errors"

var (
	ErrNotFound          = errors.New("vault: credential not found")
	ErrGroupNotFound     = errors.New("vault: group not found")
	ErrDuplicateID       = errors.New("vault: id already exists")
	ErrInvalidCredential = errors.New("vault: invalid credential")
	ErrInvalidGroup      = errors.New("vault: invalid group")
	ErrKindImmutable     = errors.New("vault: credential kind cannot change")
	ErrNotHOTP           = errors.New("vault: credential is not counter based")
	ErrCounterExhausted  = errors.New("vault: HOTP counter cannot advance further")
	ErrPersist           = errors.New("vault: failed to persist state")
	ErrLoad              = errors.New("vault: failed to load state")
)
