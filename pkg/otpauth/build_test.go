package otpauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
	"github.com/dmitrymomot/otpmirror/pkg/otpauth"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  otpauth.Key
		want string
	}{
		{
			name: "totp with defaults",
			key:  otpauth.Key{Kind: otp.KindTOTP, Issuer: "TestApp", Account: "test@example.com", Secret: "ABCDEFGHIJKLMNOP"},
			want: "otpauth://totp/TestApp:test@example.com?algorithm=SHA1&digits=6&issuer=TestApp&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "special characters",
			key:  otpauth.Key{Kind: otp.KindTOTP, Issuer: "Test & App", Account: "test+user@example.com", Secret: "ABCDEFGHIJKLMNOP", Digits: 6, Period: 30},
			want: "otpauth://totp/Test%20&%20App:test+user@example.com?algorithm=SHA1&digits=6&issuer=Test+%26+App&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "hotp without issuer",
			key:  otpauth.Key{Kind: otp.KindHOTP, Account: "bob", Secret: "JBSWY3DPEHPK3PXP", Digits: 8, Algorithm: otp.AlgorithmSHA256, Counter: ptr(uint64(3))},
			want: "otpauth://hotp/bob?algorithm=SHA256&counter=3&digits=8&secret=JBSWY3DPEHPK3PXP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, otpauth.Build(tt.key))
		})
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	t.Parallel()

	params := []otp.Params{
		{Secret: "JBSWY3DPEHPK3PXP", Kind: otp.KindTOTP, Digits: 7, Algorithm: otp.AlgorithmSHA512, Period: 90},
		{Secret: "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", Kind: otp.KindHOTP, Digits: 6, Algorithm: otp.AlgorithmSHA1, Counter: 12},
	}

	for _, p := range params {
		uri := otpauth.Build(otpauth.FromParams(p, "ACME", "alice@example.com"))

		key, err := otpauth.Parse(uri)
		require.NoError(t, err)
		assert.Equal(t, p, key.Params())
		assert.Equal(t, "ACME: alice@example.com", key.DisplayName())
	}
}

func TestFromParams_Account(t *testing.T) {
	t.Parallel()

	p := otp.Params{Secret: "JBSWY3DPEHPK3PXP", Kind: otp.KindTOTP}

	tests := []struct {
		name    string
		issuer  string
		account string
		want    string
	}{
		{name: "display name", issuer: "Example", account: "Example: alice", want: "alice"},
		{name: "no space", issuer: "Example", account: "Example:alice", want: "alice"},
		{name: "plain account", issuer: "Example", account: "alice", want: "alice"},
		{name: "other issuer", issuer: "Example", account: "ACME: alice", want: "ACME: alice"},
		{name: "issuer only", issuer: "Example", account: "Example", want: "Example"},
		{name: "no issuer", account: "Example: alice", want: "Example: alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, otpauth.FromParams(p, tt.issuer, tt.account).Account)
		})
	}
}

func TestFromParams_ImportedNameRoundTrip(t *testing.T) {
	t.Parallel()

	imported, err := otpauth.Parse("otpauth://totp/Example:alice?secret=JBSWY3DPEHPK3PXP&issuer=Example")
	require.NoError(t, err)

	uri := otpauth.Build(otpauth.FromParams(imported.Params(), "Example", imported.DisplayName()))
	assert.Contains(t, uri, "otpauth://totp/Example:alice?")

	again, err := otpauth.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "Example", again.Issuer)
	assert.Equal(t, "alice", again.Account)
}
