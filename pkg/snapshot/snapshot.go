// Package snapshot builds the secret-free code projections that cross the
// device boundary and decides on the receiving side whether a cached
// projection may still be shown.
package snapshot

import (
	"time"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
	"github.com/dmitrymomot/otpmirror/pkg/vault"
)

// InvalidCode stands in for a code that could not be generated, typically
// because the secret does not decode.
const InvalidCode = "Invalid"

// CodeSnapshot is an immutable projection of one credential at one instant.
// TOTP snapshots carry Period and the code window; HOTP snapshots carry
// Counter only.
type CodeSnapshot struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Kind             otp.Kind  `json:"type"`
	Digits           int       `json:"digits"`
	CurrentCode      string    `json:"currentCode"`
	PreviousCode     *string   `json:"previousCode,omitempty"`
	NextCode         *string   `json:"nextCode,omitempty"`
	SecondsRemaining *uint32   `json:"secondsRemaining,omitempty"`
	Period           *uint32   `json:"period,omitempty"`
	Counter          *uint64   `json:"counter,omitempty"`
	GroupColor       *string   `json:"groupColor,omitempty"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// Batch is the push message body: the full set of visible snapshots.
type Batch struct {
	CodeInfos []CodeSnapshot `json:"codeInfos"`
}

// Build derives the snapshot of c at now. Generation failures put
// InvalidCode into the affected code fields instead of failing.
func Build(c vault.Credential, groupColor string, now time.Time) CodeSnapshot {
	s := CodeSnapshot{
		ID:          c.ID,
		Name:        c.Name,
		Kind:        c.Kind,
		Digits:      c.Digits,
		GeneratedAt: now,
	}
	if groupColor != "" {
		s.GroupColor = &groupColor
	}

	switch c.Kind {
	case otp.KindHOTP:
		counter := c.Counter
		s.Counter = &counter
		s.CurrentCode = orInvalid(otp.GenerateHOTP(c.Params))
	default:
		period := c.EffectivePeriod()
		remaining := otp.SecondsRemaining(period, now)
		s.Period = &period
		s.SecondsRemaining = &remaining

		previous, current, next := InvalidCode, InvalidCode, InvalidCode
		if w, err := otp.GenerateWindow(c.Params, now); err == nil {
			previous, current, next = w.Previous, w.Current, w.Next
		}
		s.CurrentCode = current
		s.PreviousCode = &previous
		s.NextCode = &next
	}
	return s
}

// BuildAll builds snapshots for the secondary-visible credentials, keeping
// their order. colorOf may be nil.
func BuildAll(creds []vault.Credential, colorOf func(groupID string) string, now time.Time) []CodeSnapshot {
	out := make([]CodeSnapshot, 0, len(creds))
	for _, c := range creds {
		if !c.SecondaryVisible {
			continue
		}
		var color string
		if colorOf != nil && c.GroupID != "" {
			color = colorOf(c.GroupID)
		}
		out = append(out, Build(c, color, now))
	}
	return out
}

// Stamp returns a copy of batch with every GeneratedAt set to at.
func Stamp(batch []CodeSnapshot, at time.Time) []CodeSnapshot {
	out := make([]CodeSnapshot, len(batch))
	for i, s := range batch {
		s.GeneratedAt = at
		out[i] = s
	}
	return out
}

func orInvalid(code string, err error) string {
	if err != nil {
		return InvalidCode
	}
	return code
}
