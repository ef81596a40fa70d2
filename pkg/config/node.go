package config

import (
	"errors"
	"fmt"
	"time"
)

// Role is the part a node plays in the mirror pair.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// StoreDriver selects the kvstore backend.
type StoreDriver string

const (
	StoreMemory StoreDriver = "memory"
	StoreSQLite StoreDriver = "sqlite"
	StoreRedis  StoreDriver = "redis"
)

// Node is the configuration of one otpmirror process.
type Node struct {
	Role            Role          `env:"OTPMIRROR_ROLE" envDefault:"primary"`
	Env             string        `env:"OTPMIRROR_ENV" envDefault:"development"`
	LogLevel        string        `env:"OTPMIRROR_LOG_LEVEL"`
	ListenAddr      string        `env:"OTPMIRROR_LISTEN_ADDR" envDefault:":8088"`
	PeerURL         string        `env:"OTPMIRROR_PEER_URL"` // base URL of the other node, e.g. http://watch.local:8089
	PushInterval    time.Duration `env:"OTPMIRROR_PUSH_INTERVAL" envDefault:"5s"`
	RequestInterval time.Duration `env:"OTPMIRROR_REQUEST_INTERVAL" envDefault:"5s"`
	SendTimeout     time.Duration `env:"OTPMIRROR_SEND_TIMEOUT" envDefault:"3s"`
	Store           StoreDriver   `env:"OTPMIRROR_STORE" envDefault:"memory"`
	SQLitePath      string        `env:"OTPMIRROR_SQLITE_PATH" envDefault:"otpmirror.db"`
}

// Validate checks the values env parsing cannot.
func (n Node) Validate() error {
	var errs []error

	switch n.Role {
	case RolePrimary, RoleSecondary:
	default:
		errs = append(errs, fmt.Errorf("role %q: must be %q or %q", n.Role, RolePrimary, RoleSecondary))
	}

	switch n.Store {
	case StoreMemory, StoreRedis:
	case StoreSQLite:
		if n.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite store requires OTPMIRROR_SQLITE_PATH"))
		}
	default:
		errs = append(errs, fmt.Errorf("store %q: must be memory, sqlite or redis", n.Store))
	}

	if n.PushInterval <= 0 {
		errs = append(errs, errors.New("push interval must be positive"))
	}
	if n.RequestInterval <= 0 {
		errs = append(errs, errors.New("request interval must be positive"))
	}
	if n.SendTimeout <= 0 {
		errs = append(errs, errors.New("send timeout must be positive"))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidNode}, errs...)...)
}
