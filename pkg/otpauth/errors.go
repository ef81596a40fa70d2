package otpauth

import "errors"

// ErrParse is joined into every error returned by Parse.
var ErrParse = errors.New("otpauth: invalid URI")

var (
	ErrInvalidScheme = errors.New("otpauth: scheme must be otpauth")
	ErrInvalidType   = errors.New("otpauth: host must be totp or hotp")
	ErrMissingSecret = errors.New("otpauth: secret parameter is required")
)
