package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors", or returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error returns an empty Attr for a nil err.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Role is the node role, primary or secondary.
func Role(role string) slog.Attr {
	return slog.String("role", role)
}

// CredentialID returns an empty Attr for an empty id.
func CredentialID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("credential_id", id)
}

// GroupID returns an empty Attr for an empty id.
func GroupID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("group_id", id)
}

// Kind records the OTP kind.
func Kind[K ~string](kind K) slog.Attr {
	return slog.String("kind", string(kind))
}

func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Action records a control or vault action name.
func Action(name string) slog.Attr {
	return slog.String("action", name)
}

func Peer(addr string) slog.Attr {
	return slog.String("peer", addr)
}
