package link

import "errors"

var (
	ErrUnreachable         = errors.New("peer is unreachable")
	ErrUnrecognizedMessage = errors.New("unrecognized message")
	ErrMalformedMessage    = errors.New("malformed message")
	ErrSendFailed          = errors.New("failed to send message")
	ErrInvalidPeerURL      = errors.New("invalid peer url")
)
