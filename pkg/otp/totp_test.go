package otp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
)

func TestComputeCounter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), otp.ComputeCounter(30, time.Unix(0, 0)))
	assert.Equal(t, uint64(0), otp.ComputeCounter(30, time.Unix(29, 999)))
	assert.Equal(t, uint64(1), otp.ComputeCounter(30, time.Unix(30, 0)))
	assert.Equal(t, uint64(37037037), otp.ComputeCounter(30, time.Unix(1111111111, 0)))
	assert.Equal(t, uint64(18518518), otp.ComputeCounter(60, time.Unix(1111111111, 0)))
	assert.Equal(t, uint64(0), otp.ComputeCounter(30, time.Unix(-100, 0)), "pre-epoch clamps to zero")
	assert.Equal(t, otp.ComputeCounter(30, time.Unix(95, 0)), otp.ComputeCounter(0, time.Unix(95, 0)), "zero period uses default")
}

func TestComputeCounter_StepsByOnePerPeriod(t *testing.T) {
	t.Parallel()

	for _, unix := range []int64{0, 1, 29, 30, 59, 1700000000, 1700000017, 20000000000} {
		at := time.Unix(unix, 0)
		assert.Equal(t, otp.ComputeCounter(30, at)+1, otp.ComputeCounter(30, at.Add(30*time.Second)), "t=%d", unix)
	}
}

func TestSecondsRemaining(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(30), otp.SecondsRemaining(30, time.Unix(60, 0)))
	assert.Equal(t, uint32(1), otp.SecondsRemaining(30, time.Unix(89, 0)))
	assert.Equal(t, uint32(11), otp.SecondsRemaining(30, time.Unix(1700000000-1700000000%30+19, 0)))
	assert.Equal(t, uint32(60), otp.SecondsRemaining(60, time.Unix(120, 500)))
}

func TestGenerateTOTP_Deterministic(t *testing.T) {
	t.Parallel()

	p := otp.Params{Secret: "JBSWY3DPEHPK3PXP", Kind: otp.KindTOTP, Digits: 6, Algorithm: otp.AlgorithmSHA1, Period: 30}
	at := time.Unix(1700000000, 0)

	first, err := otp.GenerateTOTP(p, at)
	require.NoError(t, err)
	second, err := otp.GenerateTOTP(p, at)
	require.NoError(t, err)

	assert.Equal(t, "324550", first)
	assert.Equal(t, first, second)
}

func TestGenerateTOTP_InvalidSecret(t *testing.T) {
	t.Parallel()

	p := otp.Params{Secret: "--==", Kind: otp.KindTOTP, Digits: 6, Period: 30}
	code, err := otp.GenerateTOTP(p, time.Now())
	assert.ErrorIs(t, err, otp.ErrInvalidSecret)
	assert.Empty(t, code)
}

func TestGenerateWindow(t *testing.T) {
	t.Parallel()

	p := otp.Params{Secret: "JBSWY3DPEHPK3PXP", Kind: otp.KindTOTP, Digits: 6, Algorithm: otp.AlgorithmSHA1, Period: 30}
	at := time.Unix(1700000000, 0)

	w, err := otp.GenerateWindow(p, at)
	require.NoError(t, err)
	assert.Equal(t, "822542", w.Previous)
	assert.Equal(t, "324550", w.Current)
	assert.Equal(t, "367665", w.Next)
	assert.Equal(t, uint64(1700000000/30), w.Counter)
	assert.Equal(t, uint32(30-1700000000%30), w.SecondsRemaining)

	p.Secret = ""
	_, err = otp.GenerateWindow(p, at)
	assert.ErrorIs(t, err, otp.ErrInvalidSecret)
}
