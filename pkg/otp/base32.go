package otp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
)

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// secretEncoding is the RFC 4648 alphabet without padding, the form authenticator apps emit.
var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// base32Values maps an upper-case symbol to its 5-bit value, -1 for symbols outside the alphabet.
var base32Values = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(base32Alphabet); i++ {
		table[base32Alphabet[i]] = int8(i)
	}
	return table
}()

// DecodeSecret turns the text form of a shared secret into raw key bytes.
//
// Decoding is permissive: input is upper-cased, separators ('-', ' ') and '='
// padding are removed, and any remaining symbol outside the RFC 4648 alphabet
// is skipped. Bits that do not complete a byte are dropped. DecodeSecret never
// fails; empty or fully invalid input yields an empty slice, and the caller
// treats "no key material" as the validation signal.
func DecodeSecret(text string) []byte {
	text = strings.ToUpper(text)

	out := make([]byte, 0, len(text)*5/8)
	var buffer uint32
	var bits uint

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '-' || c == ' ' || c == '=' {
			continue
		}
		v := base32Values[c]
		if v < 0 {
			continue
		}
		buffer = buffer<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= 1<<bits - 1
		}
	}

	return out
}

// EncodeSecret returns the unpadded upper-case Base32 text for raw key bytes.
func EncodeSecret(key []byte) string {
	return secretEncoding.EncodeToString(key)
}

// GenerateSecret creates a new random 160-bit secret in Base32 text form.
func GenerateSecret() (string, error) {
	key := make([]byte, 20) // RFC 4226 recommends at least 160 bits for HMAC-SHA1
	if _, err := rand.Read(key); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	return EncodeSecret(key), nil
}
