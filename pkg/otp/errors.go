package otp

import "errors"

var (
	ErrInvalidSecret          = errors.New("invalid secret: no usable key material")
	ErrInvalidDigits          = errors.New("invalid digit count, must be 6, 7 or 8")
	ErrInvalidAlgorithm       = errors.New("invalid hash algorithm")
	ErrInvalidKind            = errors.New("invalid OTP type, must be totp or hotp")
	ErrInvalidPeriod          = errors.New("invalid period, must be greater than 0")
	ErrFailedToGenerateSecret = errors.New("failed to generate OTP secret")
)
