package otp

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
)

var pow10 = [...]uint32{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000}

// Generate implements the RFC 4226 section 5.3 HOTP value for one counter.
//
// The secret is decoded with DecodeSecret and used as the HMAC key over the
// big-endian 8-byte counter. The result is dynamically truncated to a 31-bit
// unsigned value and reduced modulo 10^digits. The code is zero-padded to
// exactly digits characters.
func Generate(secret string, counter uint64, digits int, alg Algorithm) (string, error) {
	if !validDigits(digits) {
		return "", ErrInvalidDigits
	}
	newHash, err := alg.hash()
	if err != nil {
		return "", err
	}

	key := DecodeSecret(secret)
	if len(key) == 0 {
		return "", ErrInvalidSecret
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(newHash, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Low nibble of the last byte picks a 4-byte window; the top bit is masked
	// so the value is the same whether read as signed or unsigned.
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", digits, value%pow10[digits]), nil
}

// GenerateHOTP returns the code for the credential's stored counter.
func GenerateHOTP(p Params) (string, error) {
	return GenerateHOTPAt(p, p.Counter)
}

// GenerateHOTPAt returns the code for an explicit counter, ignoring p.Counter.
func GenerateHOTPAt(p Params, counter uint64) (string, error) {
	return Generate(p.Secret, counter, p.Digits, p.Algorithm)
}
