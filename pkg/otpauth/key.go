package otpauth

import "github.com/dmitrymomot/otpmirror/pkg/otp"

// Key is a parsed otpauth URI. Exactly one of Period and Counter is meaningful:
// Period is set for TOTP keys, Counter (possibly nil) for HOTP keys.
type Key struct {
	Kind      otp.Kind
	Label     string
	Issuer    string
	Account   string
	Secret    string
	Algorithm otp.Algorithm
	Digits    int
	Period    uint32
	Counter   *uint64
}

// DisplayName picks the credential name a store assigns on import:
// "issuer: account", then account, then issuer, then the raw label.
func (k Key) DisplayName() string {
	switch {
	case k.Issuer != "" && k.Account != "":
		return k.Issuer + ": " + k.Account
	case k.Account != "":
		return k.Account
	case k.Issuer != "":
		return k.Issuer
	}
	return k.Label
}

// Params returns the OTP-relevant fields. An unset HOTP counter becomes 0.
func (k Key) Params() otp.Params {
	p := otp.Params{
		Secret:    k.Secret,
		Kind:      k.Kind,
		Digits:    k.Digits,
		Algorithm: k.Algorithm,
	}
	switch k.Kind {
	case otp.KindTOTP:
		p.Period = k.Period
	case otp.KindHOTP:
		if k.Counter != nil {
			p.Counter = *k.Counter
		}
	}
	return p
}
