// Package otp derives HOTP (RFC 4226) and TOTP (RFC 6238) codes from shared secrets.
//
// The package is a small set of pure functions: a permissive Base32 decoder for
// secret text, the keyed-hash truncation shared by both modes, and helpers that
// turn wall-clock time into TOTP counters.
//
// # Secrets
//
// Secrets arrive as Base32 text typed by a user or scanned from a QR code. Real
// payloads contain lower-case letters, dashes, spaces and stray padding, so
// DecodeSecret normalises and skips rather than failing. A secret that decodes
// to zero bytes is reported as ErrInvalidSecret by the generators.
//
// # Usage
//
//	p := otp.Params{
//	    Secret:    "JBSWY3DPEHPK3PXP",
//	    Kind:      otp.KindTOTP,
//	    Digits:    6,
//	    Algorithm: otp.AlgorithmSHA1,
//	    Period:    30,
//	}
//
//	code, err := otp.GenerateTOTP(p, time.Now())
//	if errors.Is(err, otp.ErrInvalidSecret) {
//	    // render a per-credential "Invalid" placeholder
//	}
//
//	w, _ := otp.GenerateWindow(p, time.Now())
//	fmt.Println(w.Previous, w.Current, w.Next, w.SecondsRemaining)
//
// HOTP credentials use GenerateHOTP for the stored counter or GenerateHOTPAt
// for an explicit one.
//
// # Arithmetic
//
// Truncation and modulo run on uint32 values. The top bit of the truncated
// word is masked before reduction, matching the RFC reference implementation.
package otp
