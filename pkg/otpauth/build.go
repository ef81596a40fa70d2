package otpauth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
)

// Build renders k as an otpauth URI that authenticator apps and Parse accept.
// Defaults are filled for zero digits, algorithm and TOTP period.
func Build(k Key) string {
	label := k.Label
	switch {
	case k.Issuer != "" && k.Account != "":
		label = url.PathEscape(k.Issuer) + ":" + url.PathEscape(k.Account)
	case k.Account != "":
		label = url.PathEscape(k.Account)
	default:
		label = url.PathEscape(label)
	}

	digits := k.Digits
	if digits == 0 {
		digits = otp.DefaultDigits
	}
	alg := k.Algorithm
	if alg == "" {
		alg = otp.DefaultAlgorithm
	}

	query := url.Values{}
	query.Set("secret", k.Secret)
	if k.Issuer != "" {
		query.Set("issuer", k.Issuer)
	}
	query.Set("algorithm", string(alg))
	query.Set("digits", strconv.Itoa(digits))

	kind := k.Kind
	if kind == otp.KindHOTP {
		var counter uint64
		if k.Counter != nil {
			counter = *k.Counter
		}
		query.Set("counter", strconv.FormatUint(counter, 10))
	} else {
		kind = otp.KindTOTP
		period := k.Period
		if period == 0 {
			period = otp.DefaultPeriod
		}
		query.Set("period", strconv.FormatUint(uint64(period), 10))
	}

	return fmt.Sprintf("%s://%s/%s?%s", scheme, kind, label, query.Encode())
}

// FromParams builds a Key for exporting a stored credential. account may be
// a display name as produced by Key.DisplayName; a leading "issuer: " is
// dropped so the issuer does not appear twice in the label.
func FromParams(p otp.Params, issuer, account string) Key {
	if issuer != "" {
		if rest, ok := strings.CutPrefix(account, issuer+":"); ok {
			if rest = strings.TrimLeft(rest, " "); rest != "" {
				account = rest
			}
		}
	}
	k := Key{
		Kind:      p.Kind,
		Issuer:    issuer,
		Account:   account,
		Secret:    p.Secret,
		Algorithm: p.Algorithm,
		Digits:    p.Digits,
	}
	if p.Kind == otp.KindHOTP {
		counter := p.Counter
		k.Counter = &counter
	} else {
		k.Period = p.Period
	}
	return k
}
