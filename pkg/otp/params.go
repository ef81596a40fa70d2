package otp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"
)

// Kind selects whether a counter or the clock drives code derivation.
type Kind string

const (
	KindTOTP Kind = "totp" // RFC 6238, counter derived from time
	KindHOTP Kind = "hotp" // RFC 4226, explicit counter
)

// Algorithm is the HMAC hash primitive.
type Algorithm string

const (
	AlgorithmSHA1   Algorithm = "SHA1"
	AlgorithmSHA256 Algorithm = "SHA256"
	AlgorithmSHA512 Algorithm = "SHA512"
)

const (
	DefaultDigits    = 6
	DefaultPeriod    = 30
	DefaultAlgorithm = AlgorithmSHA1
)

// ParseKind maps "totp"/"hotp" in any case to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case string(KindTOTP):
		return KindTOTP, true
	case string(KindHOTP):
		return KindHOTP, true
	}
	return "", false
}

// ParseAlgorithm maps "sha1"/"sha256"/"sha512" in any case to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch strings.ToUpper(s) {
	case string(AlgorithmSHA1):
		return AlgorithmSHA1, true
	case string(AlgorithmSHA256):
		return AlgorithmSHA256, true
	case string(AlgorithmSHA512):
		return AlgorithmSHA512, true
	}
	return "", false
}

func (a Algorithm) hash() (func() hash.Hash, error) {
	switch a {
	case AlgorithmSHA1, "":
		return sha1.New, nil
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	}
	return nil, ErrInvalidAlgorithm
}

// Params is the OTP-relevant part of a credential.
// Period is only meaningful for TOTP and Counter only for HOTP.
type Params struct {
	Secret    string    `json:"secret"`
	Kind      Kind      `json:"type"`
	Digits    int       `json:"digits"`
	Algorithm Algorithm `json:"algorithm"`
	Period    uint32    `json:"period,omitempty"`
	Counter   uint64    `json:"counter,omitempty"`
}

// Validate checks the structural invariants of p. It does not decode the
// secret: an undecodable secret is reported by the generators instead.
func (p Params) Validate() error {
	if p.Kind != KindTOTP && p.Kind != KindHOTP {
		return ErrInvalidKind
	}
	if !validDigits(p.Digits) {
		return ErrInvalidDigits
	}
	if _, err := p.Algorithm.hash(); err != nil {
		return err
	}
	if p.Kind == KindTOTP && p.Period == 0 {
		return ErrInvalidPeriod
	}
	return nil
}

func validDigits(d int) bool {
	return d >= 6 && d <= 8
}

// EffectivePeriod is Period, or DefaultPeriod when unset.
func (p Params) EffectivePeriod() uint32 {
	if p.Period == 0 {
		return DefaultPeriod
	}
	return p.Period
}
