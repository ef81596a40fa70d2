package vault

import (
	"context"
	"errors"
	"math"
	"slices"

	"github.com/dmitrymomot/otpmirror/pkg/logger"
	"github.com/dmitrymomot/otpmirror/pkg/otp"
	"github.com/dmitrymomot/otpmirror/pkg/otpauth"
)

// Add stores c. An empty ID is replaced with a generated one; zero digits,
// algorithm and TOTP period get their defaults.
func (v *Vault) Add(ctx context.Context, c Credential) (Credential, error) {
	c.Params = withDefaults(c.Params)
	if err := c.Params.Validate(); err != nil {
		return Credential{}, errors.Join(ErrInvalidCredential, err)
	}
	if c.ID == "" {
		c.ID = v.newID()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.indexOf(c.ID) >= 0 {
		return Credential{}, ErrDuplicateID
	}
	if c.GroupID != "" && v.groupIndexOf(c.GroupID) < 0 {
		return Credential{}, ErrGroupNotFound
	}

	if err := v.commitCredentials(ctx, append(slices.Clone(v.creds), c)); err != nil {
		return Credential{}, err
	}

	v.log.InfoContext(ctx, "credential added", logger.CredentialID(c.ID), logger.Kind(c.Kind))
	v.publish(ctx, Event{Type: EventCredentialAdded, CredentialID: c.ID, GroupID: c.GroupID})
	return c, nil
}

// Import parses an otpauth URI and adds the resulting credential, named
// "issuer: account" when both are known. Imported credentials are visible to
// the secondary. A URI that fails to parse creates nothing.
func (v *Vault) Import(ctx context.Context, uri string) (Credential, error) {
	key, err := otpauth.Parse(uri)
	if err != nil {
		return Credential{}, err
	}
	return v.Add(ctx, Credential{
		Name:             key.DisplayName(),
		Params:           key.Params(),
		SecondaryVisible: true,
	})
}

// Update replaces the stored credential with the same ID. The kind cannot
// change and the counter of an HOTP credential cannot move backwards.
func (v *Vault) Update(ctx context.Context, c Credential) (Credential, error) {
	c.Params = withDefaults(c.Params)
	if err := c.Params.Validate(); err != nil {
		return Credential{}, errors.Join(ErrInvalidCredential, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(c.ID)
	if i < 0 {
		return Credential{}, ErrNotFound
	}
	prev := v.creds[i]
	if prev.Kind != c.Kind {
		return Credential{}, ErrKindImmutable
	}
	if c.Kind == otp.KindHOTP && c.Counter < prev.Counter {
		c.Counter = prev.Counter
	}
	if c.GroupID != "" && v.groupIndexOf(c.GroupID) < 0 {
		return Credential{}, ErrGroupNotFound
	}

	creds := slices.Clone(v.creds)
	creds[i] = c
	if err := v.commitCredentials(ctx, creds); err != nil {
		return Credential{}, err
	}

	v.publish(ctx, Event{Type: EventCredentialUpdated, CredentialID: c.ID, GroupID: c.GroupID})
	return c, nil
}

func (v *Vault) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	removed := v.creds[i]

	if err := v.commitCredentials(ctx, slices.Delete(slices.Clone(v.creds), i, i+1)); err != nil {
		return err
	}

	v.log.InfoContext(ctx, "credential deleted", logger.CredentialID(id))
	v.publish(ctx, Event{Type: EventCredentialDeleted, CredentialID: id, GroupID: removed.GroupID})
	return nil
}

// IncrementHOTPCounter advances the counter of an HOTP credential by exactly
// one and returns the updated credential.
func (v *Vault) IncrementHOTPCounter(ctx context.Context, id string) (Credential, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Credential{}, ErrNotFound
	}
	c := v.creds[i]
	if c.Kind != otp.KindHOTP {
		return Credential{}, ErrNotHOTP
	}
	if c.Counter == math.MaxUint64 {
		return Credential{}, ErrCounterExhausted
	}
	c.Counter++

	creds := slices.Clone(v.creds)
	creds[i] = c
	if err := v.commitCredentials(ctx, creds); err != nil {
		return Credential{}, err
	}

	v.publish(ctx, Event{Type: EventCounterAdvanced, CredentialID: id, GroupID: c.GroupID})
	return c, nil
}

// SetVisibility controls whether the credential is mirrored to the
// secondary. Setting the current value is a no-op without an event.
func (v *Vault) SetVisibility(ctx context.Context, id string, visible bool) (Credential, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Credential{}, ErrNotFound
	}
	c := v.creds[i]
	if c.SecondaryVisible == visible {
		return c, nil
	}
	c.SecondaryVisible = visible

	creds := slices.Clone(v.creds)
	creds[i] = c
	if err := v.commitCredentials(ctx, creds); err != nil {
		return Credential{}, err
	}

	v.publish(ctx, Event{Type: EventVisibilityChanged, CredentialID: id, GroupID: c.GroupID})
	return c, nil
}
