// Package otpauth parses and builds otpauth:// key URIs as produced by QR
// provisioning codes.
package otpauth

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
)

const scheme = "otpauth"

// Parse validates an otpauth:// URI and extracts its OTP parameters.
//
// The scheme must be otpauth and the host totp or hotp (any case). The label
// is the path without its leading slash; "issuer:account" labels are split
// on the first colon. The secret query parameter is required. Unknown or
// malformed optional parameters fall back to defaults instead of failing:
// algorithm SHA1, digits 6, period 30. A non-numeric counter is ignored.
// A non-empty issuer parameter wins over the label issuer. Unrecognized query
// keys are ignored.
func Parse(uri string) (Key, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return Key{}, errors.Join(ErrParse, err)
	}
	if !strings.EqualFold(u.Scheme, scheme) {
		return Key{}, errors.Join(ErrParse, ErrInvalidScheme)
	}

	kind, ok := otp.ParseKind(u.Host)
	if !ok {
		return Key{}, errors.Join(ErrParse, ErrInvalidType)
	}

	q := u.Query()
	secret := strings.TrimSpace(q.Get("secret"))
	if secret == "" {
		return Key{}, errors.Join(ErrParse, ErrMissingSecret)
	}

	key := Key{
		Kind:      kind,
		Label:     strings.TrimPrefix(u.Path, "/"),
		Secret:    secret,
		Algorithm: otp.DefaultAlgorithm,
		Digits:    otp.DefaultDigits,
	}

	if issuer, account, found := strings.Cut(key.Label, ":"); found {
		key.Issuer = issuer
		key.Account = strings.TrimLeft(account, " ")
	} else {
		key.Account = key.Label
	}

	if issuer := q.Get("issuer"); issuer != "" {
		key.Issuer = issuer
	}

	if alg, ok := otp.ParseAlgorithm(q.Get("algorithm")); ok {
		key.Algorithm = alg
	}

	if d, err := strconv.Atoi(q.Get("digits")); err == nil && d >= 6 && d <= 8 {
		key.Digits = d
	}

	switch kind {
	case otp.KindTOTP:
		key.Period = otp.DefaultPeriod
		if p, err := strconv.ParseUint(q.Get("period"), 10, 32); err == nil && p > 0 {
			key.Period = uint32(p)
		}
	case otp.KindHOTP:
		if c, err := strconv.ParseUint(q.Get("counter"), 10, 64); err == nil {
			key.Counter = &c
		}
	}

	return key, nil
}
