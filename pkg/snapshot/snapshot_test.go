package snapshot_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
	"github.com/dmitrymomot/otpmirror/pkg/snapshot"
	"github.com/dmitrymomot/otpmirror/pkg/vault"
)

const secret = "JBSWY3DPEHPK3PXP"

// 1700000000 mod 30 == 20, so 10 seconds remain in the step.
var now = time.Unix(1_700_000_000, 0).UTC()

func totpCred(id string) vault.Credential {
	return vault.Credential{
		ID:               id,
		Name:             "TOTP " + id,
		Params:           otp.Params{Secret: secret, Kind: otp.KindTOTP, Digits: 6, Algorithm: otp.AlgorithmSHA1, Period: 30},
		SecondaryVisible: true,
	}
}

func hotpCred(id string, counter uint64) vault.Credential {
	return vault.Credential{
		ID:               id,
		Name:             "HOTP " + id,
		Params:           otp.Params{Secret: secret, Kind: otp.KindHOTP, Digits: 6, Algorithm: otp.AlgorithmSHA1, Counter: counter},
		SecondaryVisible: true,
	}
}

func TestBuild_TOTP(t *testing.T) {
	t.Parallel()

	s := snapshot.Build(totpCred("a"), "#FF9500", now)

	assert.Equal(t, "a", s.ID)
	assert.Equal(t, otp.KindTOTP, s.Kind)
	assert.Equal(t, 6, s.Digits)
	assert.Equal(t, "324550", s.CurrentCode)
	require.NotNil(t, s.PreviousCode)
	assert.Equal(t, "822542", *s.PreviousCode)
	require.NotNil(t, s.NextCode)
	assert.Equal(t, "367665", *s.NextCode)
	require.NotNil(t, s.SecondsRemaining)
	assert.Equal(t, uint32(10), *s.SecondsRemaining)
	require.NotNil(t, s.Period)
	assert.Equal(t, uint32(30), *s.Period)
	assert.Nil(t, s.Counter)
	require.NotNil(t, s.GroupColor)
	assert.Equal(t, "#FF9500", *s.GroupColor)
	assert.Equal(t, now, s.GeneratedAt)
}

func TestBuild_HOTP(t *testing.T) {
	t.Parallel()

	s := snapshot.Build(hotpCred("h", 5), "", now)

	assert.Equal(t, "768897", s.CurrentCode)
	require.NotNil(t, s.Counter)
	assert.Equal(t, uint64(5), *s.Counter)
	assert.Nil(t, s.Period)
	assert.Nil(t, s.PreviousCode)
	assert.Nil(t, s.NextCode)
	assert.Nil(t, s.SecondsRemaining)
	assert.Nil(t, s.GroupColor)
}

func TestBuild_InvalidSecret(t *testing.T) {
	t.Parallel()

	bad := totpCred("bad")
	bad.Secret = "--=="
	s := snapshot.Build(bad, "", now)
	assert.Equal(t, snapshot.InvalidCode, s.CurrentCode)
	assert.Equal(t, snapshot.InvalidCode, *s.PreviousCode)
	assert.Equal(t, snapshot.InvalidCode, *s.NextCode)
	assert.Equal(t, uint32(10), *s.SecondsRemaining)

	badH := hotpCred("badh", 1)
	badH.Secret = ""
	assert.Equal(t, snapshot.InvalidCode, snapshot.Build(badH, "", now).CurrentCode)
}

func TestBuild_NeverCarriesSecret(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(snapshot.Batch{CodeInfos: []snapshot.CodeSnapshot{
		snapshot.Build(totpCred("a"), "", now),
		snapshot.Build(hotpCred("b", 1), "", now),
	}})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), secret)
	assert.NotContains(t, string(raw), "secret")
}

func TestBuildAll(t *testing.T) {
	t.Parallel()

	hidden := totpCred("hidden")
	hidden.SecondaryVisible = false
	grouped := hotpCred("grouped", 0)
	grouped.GroupID = "g1"

	creds := []vault.Credential{totpCred("first"), hidden, grouped, totpCred("last")}
	colors := map[string]string{"g1": "#34C759"}

	out := snapshot.BuildAll(creds, func(id string) string { return colors[id] }, now)
	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].ID)
	assert.Equal(t, "grouped", out[1].ID)
	assert.Equal(t, "last", out[2].ID)
	require.NotNil(t, out[1].GroupColor)
	assert.Equal(t, "#34C759", *out[1].GroupColor)
	assert.Nil(t, out[0].GroupColor)

	for _, s := range out {
		assert.Equal(t, now, s.GeneratedAt)
	}

	assert.Empty(t, snapshot.BuildAll(nil, nil, now))
	assert.Len(t, snapshot.BuildAll(creds, nil, now), 3)
}

func TestBatch_WireFormat(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(snapshot.Batch{CodeInfos: []snapshot.CodeSnapshot{snapshot.Build(hotpCred("h", 5), "", now)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"codeInfos":[{
		"id":"h","name":"HOTP h","type":"hotp","digits":6,
		"currentCode":"768897","counter":5,
		"generatedAt":"2023-11-14T22:13:20Z"
	}]}`, string(raw))

	var back snapshot.Batch
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back.CodeInfos, 1)
	assert.Equal(t, uint64(5), *back.CodeInfos[0].Counter)
}

func TestStamp(t *testing.T) {
	t.Parallel()

	batch := []snapshot.CodeSnapshot{snapshot.Build(totpCred("a"), "", now), snapshot.Build(hotpCred("b", 0), "", now)}
	later := now.Add(time.Hour)

	stamped := snapshot.Stamp(batch, later)
	for _, s := range stamped {
		assert.Equal(t, later, s.GeneratedAt)
	}
	assert.Equal(t, now, batch[0].GeneratedAt, "input batch is not modified")
}
