package vault

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/otpmirror/pkg/broadcast"
	"github.com/dmitrymomot/otpmirror/pkg/kvstore"
	"github.com/dmitrymomot/otpmirror/pkg/logger"
)

// Keys under which the collections are persisted.
const (
	CredentialsKey = "credentials"
	GroupsKey      = "groups"
)

// Vault owns the credential and group collections of the primary node. It is
// the single writer: every command validates, persists, swaps the in-memory
// state and then publishes an Event.
type Vault struct {
	mu     sync.RWMutex
	store  kvstore.Store
	creds  []Credential
	groups []Group

	events *broadcast.Memory[Event]
	log    *slog.Logger
	newID  func() string
}

// Option configures a Vault.
type Option func(*Vault)

func WithLogger(l *slog.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// WithIDGenerator replaces uuid.NewString for new credentials and groups.
func WithIDGenerator(fn func() string) Option {
	return func(v *Vault) {
		if fn != nil {
			v.newID = fn
		}
	}
}

// New returns an empty vault persisting to store. Call Load to read existing
// state.
func New(store kvstore.Store, opts ...Option) *Vault {
	v := &Vault{
		store:  store,
		events: broadcast.NewMemory[Event](32),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = logger.OrNop(v.log).With(logger.Component("vault"))
	return v
}

// Load replaces the in-memory state with the persisted collections. Missing
// keys are treated as empty collections. Group references to unknown groups
// are cleared.
func (v *Vault) Load(ctx context.Context) error {
	var (
		creds  []Credential
		groups []Group
	)
	if _, err := kvstore.GetJSON(ctx, v.store, CredentialsKey, &creds); err != nil {
		return errors.Join(ErrLoad, err)
	}
	if _, err := kvstore.GetJSON(ctx, v.store, GroupsKey, &groups); err != nil {
		return errors.Join(ErrLoad, err)
	}

	known := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		known[g.ID] = struct{}{}
	}
	for i := range creds {
		if _, ok := known[creds[i].GroupID]; !ok {
			creds[i].GroupID = ""
		}
	}

	v.mu.Lock()
	v.creds, v.groups = creds, groups
	v.mu.Unlock()

	v.log.InfoContext(ctx, "vault loaded", logger.Count(len(creds)), slog.Int("groups", len(groups)))
	return nil
}

// Subscribe returns a subscriber receiving every Event published after the
// call. It is closed when ctx ends or the vault is closed.
func (v *Vault) Subscribe(ctx context.Context) broadcast.Subscriber[Event] {
	return v.events.Subscribe(ctx)
}

// Close closes all subscribers.
func (v *Vault) Close() error {
	return v.events.Close()
}

// Credentials returns a copy of all credentials in insertion order.
func (v *Vault) Credentials() []Credential {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.creds)
}

// Visible returns the credentials mirrored to the secondary, in insertion
// order.
func (v *Vault) Visible() []Credential {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Credential, 0, len(v.creds))
	for _, c := range v.creds {
		if c.SecondaryVisible {
			out = append(out, c)
		}
	}
	return out
}

func (v *Vault) Credential(id string) (Credential, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	i := v.indexOf(id)
	if i < 0 {
		return Credential{}, ErrNotFound
	}
	return v.creds[i], nil
}

// Groups returns a copy of all groups in insertion order.
func (v *Vault) Groups() []Group {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.groups)
}

func (v *Vault) Group(id string) (Group, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	i := v.groupIndexOf(id)
	if i < 0 {
		return Group{}, ErrGroupNotFound
	}
	return v.groups[i], nil
}

// GroupColor returns the color tag of group id, or "" when id is empty or
// unknown.
func (v *Vault) GroupColor(id string) string {
	if id == "" {
		return ""
	}
	g, err := v.Group(id)
	if err != nil {
		return ""
	}
	return g.ColorTag
}

func (v *Vault) indexOf(id string) int {
	return slices.IndexFunc(v.creds, func(c Credential) bool { return c.ID == id })
}

func (v *Vault) groupIndexOf(id string) int {
	return slices.IndexFunc(v.groups, func(g Group) bool { return g.ID == id })
}

// commitCredentials persists creds and, on success, makes them current.
// Must hold v.mu.
func (v *Vault) commitCredentials(ctx context.Context, creds []Credential) error {
	if err := kvstore.SetJSON(ctx, v.store, CredentialsKey, creds); err != nil {
		return errors.Join(ErrPersist, err)
	}
	v.creds = creds
	return nil
}

// commitGroups persists groups and, on success, makes them current.
// Must hold v.mu.
func (v *Vault) commitGroups(ctx context.Context, groups []Group) error {
	if err := kvstore.SetJSON(ctx, v.store, GroupsKey, groups); err != nil {
		return errors.Join(ErrPersist, err)
	}
	v.groups = groups
	return nil
}

func (v *Vault) publish(ctx context.Context, ev Event) {
	v.log.DebugContext(ctx, "vault changed",
		logger.Action(string(ev.Type)),
		logger.CredentialID(ev.CredentialID),
		logger.GroupID(ev.GroupID),
	)
	v.events.Publish(ev)
}
