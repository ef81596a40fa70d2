package snapshot

import (
	"strings"
	"time"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
)

// HOTPMaxAge is how long an HOTP snapshot stays displayable. HOTP codes do
// not expire on their own, but the primary may have consumed the code since.
const HOTPMaxAge = time.Hour

// PlaceholderSymbol masks one digit of a stale code.
const PlaceholderSymbol = "-"

// IsFresh reports whether s may still be shown at now. Both bounds are
// inclusive. A GeneratedAt in the future counts as fresh.
func IsFresh(s CodeSnapshot, now time.Time) bool {
	return now.Sub(s.GeneratedAt) <= MaxAge(s)
}

// MaxAge is the period for TOTP snapshots (30s when unset) and HOTPMaxAge
// for HOTP snapshots.
func MaxAge(s CodeSnapshot) time.Duration {
	if s.Kind == otp.KindHOTP {
		return HOTPMaxAge
	}
	period := uint32(otp.DefaultPeriod)
	if s.Period != nil && *s.Period > 0 {
		period = *s.Period
	}
	return time.Duration(period) * time.Second
}

// Placeholder returns PlaceholderSymbol repeated digits times.
func Placeholder(digits int) string {
	return strings.Repeat(PlaceholderSymbol, max(digits, 0))
}

// DisplayRow is what a presentation layer renders for one snapshot.
type DisplayRow struct {
	ID               string
	Name             string
	Kind             otp.Kind
	Code             string
	Fresh            bool
	CanAdvance       bool
	SecondsRemaining uint32
	Counter          *uint64
	GroupColor       string

	// PredictedCounter is set by callers tracking an advance the primary has
	// not confirmed yet.
	PredictedCounter *uint64
}

// Render resolves s against now. Stale snapshots show the placeholder and
// never allow advancing. A fresh TOTP snapshot keeps counting down from its
// received SecondsRemaining and rolls over to NextCode once the current step
// has elapsed on the receiver's clock.
func Render(s CodeSnapshot, now time.Time) DisplayRow {
	row := DisplayRow{
		ID:      s.ID,
		Name:    s.Name,
		Kind:    s.Kind,
		Fresh:   IsFresh(s, now),
		Counter: s.Counter,
	}
	if s.GroupColor != nil {
		row.GroupColor = *s.GroupColor
	}

	if !row.Fresh {
		row.Code = Placeholder(s.Digits)
		return row
	}

	row.Code = s.CurrentCode
	if s.Kind == otp.KindHOTP {
		row.CanAdvance = true
		return row
	}
	if s.SecondsRemaining == nil {
		return row
	}

	elapsed := max(now.Sub(s.GeneratedAt), 0)
	left := time.Duration(*s.SecondsRemaining)*time.Second - elapsed
	if left <= 0 && s.NextCode != nil {
		row.Code = *s.NextCode
		left += MaxAge(s)
	}
	row.SecondsRemaining = uint32(max(left, 0).Round(time.Second) / time.Second)
	return row
}
