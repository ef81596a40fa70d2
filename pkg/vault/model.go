package vault

import (
	"log/slog"
	"regexp"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
)

// Credential is one stored OTP secret with its display metadata. The secret
// never leaves the primary node.
type Credential struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	otp.Params
	GroupID          string `json:"groupId,omitempty"`
	SecondaryVisible bool   `json:"secondaryVisible"`
}

// LogValue omits the secret.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", c.ID),
		slog.String("name", c.Name),
		slog.String("kind", string(c.Kind)),
		slog.Int("digits", c.Digits),
	)
}

// Group labels credentials with a name and a color.
type Group struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ColorTag string `json:"colorTag"` // hex, e.g. #FF9500
}

var colorTagRe = regexp.MustCompile(`^#?(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

func (g Group) validate() error {
	if g.Name == "" {
		return ErrInvalidGroup
	}
	if g.ColorTag != "" && !colorTagRe.MatchString(g.ColorTag) {
		return ErrInvalidGroup
	}
	return nil
}

// EventType names a vault mutation.
type EventType string

const (
	EventCredentialAdded   EventType = "credential.added"
	EventCredentialUpdated EventType = "credential.updated"
	EventCredentialDeleted EventType = "credential.deleted"
	EventCounterAdvanced   EventType = "credential.counter_advanced"
	EventVisibilityChanged EventType = "credential.visibility_changed"
	EventGroupAdded        EventType = "group.added"
	EventGroupUpdated      EventType = "group.updated"
	EventGroupDeleted      EventType = "group.deleted"
)

// Event is published after every successful mutation.
type Event struct {
	Type         EventType
	CredentialID string
	GroupID      string
}

// withDefaults fills zero digits, algorithm and TOTP period.
func withDefaults(p otp.Params) otp.Params {
	if p.Digits == 0 {
		p.Digits = otp.DefaultDigits
	}
	if p.Algorithm == "" {
		p.Algorithm = otp.DefaultAlgorithm
	}
	if p.Kind == otp.KindTOTP && p.Period == 0 {
		p.Period = otp.DefaultPeriod
	}
	if p.Kind == otp.KindTOTP {
		p.Counter = 0
	} else {
		p.Period = 0
	}
	return p
}
