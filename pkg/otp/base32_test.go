package otp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
)

func TestDecodeSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{name: "rfc4226 seed", input: "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", want: []byte("12345678901234567890")},
		{name: "lower case", input: "gezdgnbvgy3tqojqgezdgnbvgy3tqojq", want: []byte("12345678901234567890")},
		{name: "separators and padding", input: "GEZD-GNBV GY3T-QOJQ GEZD-GNBV GY3T-QOJQ====", want: []byte("12345678901234567890")},
		{name: "stray symbols skipped", input: "JBSW!Y3DP#EHPK3PXP", want: []byte("Hello!\xde\xad\xbe\xef")},
		{name: "trailing bits dropped", input: "MY", want: []byte("f")},
		{name: "single symbol yields nothing", input: "M", want: []byte{}},
		{name: "empty", input: "", want: []byte{}},
		{name: "only separators", input: "--==", want: []byte{}},
		{name: "only invalid symbols", input: "0189!@#", want: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, otp.DecodeSecret(tt.input))
		})
	}
}

func TestEncodeSecret_RoundTrip(t *testing.T) {
	t.Parallel()

	key := []byte("12345678901234567890")
	encoded := otp.EncodeSecret(key)
	assert.Equal(t, "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", encoded)
	assert.Equal(t, key, otp.DecodeSecret(encoded))
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	secret, err := otp.GenerateSecret()
	require.NoError(t, err)
	assert.Regexp(t, "^[A-Z2-7]{32}$", secret)
	assert.Len(t, otp.DecodeSecret(secret), 20)

	other, err := otp.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}
