package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filters records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("level by name", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("debug"))
		log.Debug("kept")
		assert.Contains(t, buf.String(), "kept")

		buf.Reset()
		log = logger.New(logger.WithOutput(buf), logger.WithLevelName("nonsense"))
		log.Debug("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Role("secondary")))
		log.Info("hello")
		assert.Equal(t, "secondary", decode(t, buf)["role"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestNew_RedactsSecrets(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithAttr(slog.String("secret", "JBSWY3DPEHPK3PXP")),
		logger.WithRedactedKeys("token"),
	)

	log.Info("imported",
		slog.String("secretMaterial", "JBSWY3DPEHPK3PXP"),
		slog.Group("credential", slog.String("Secret_Material", "JBSWY3DPEHPK3PXP"), slog.String("name", "ACME")),
		slog.String("token", "abc"),
	)

	out := buf.String()
	assert.NotContains(t, out, "JBSWY3DPEHPK3PXP")
	assert.NotContains(t, out, "abc")

	entry := decode(t, buf)
	assert.Equal(t, logger.Redacted, entry["secret"])
	assert.Equal(t, logger.Redacted, entry["secretMaterial"])
	assert.Equal(t, logger.Redacted, entry["token"])
	group, ok := entry["credential"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, logger.Redacted, group["Secret_Material"])
	assert.Equal(t, "ACME", group["name"])
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    logger.Environment
		debugOn bool
	}{
		{in: "production", want: logger.Production},
		{in: "prod", want: logger.Production},
		{in: "Stage", want: logger.Staging},
		{in: "dev", want: logger.Development, debugOn: true},
		{in: "", want: logger.Development, debugOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			env := logger.ParseEnvironment(tt.in)
			assert.Equal(t, tt.want, env)

			buf := &bytes.Buffer{}
			log := logger.New(logger.WithEnvironment(env, "otpmirror"), logger.WithOutput(buf))
			assert.Equal(t, tt.debugOn, log.Enabled(context.Background(), slog.LevelDebug))

			log.Warn("probe")
			out := buf.String()
			assert.Contains(t, out, "otpmirror")
			assert.Contains(t, out, string(tt.want))
		})
	}
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextValue("peer", key{}))

	ctx := context.WithValue(context.Background(), key{}, "watch-1")
	log.InfoContext(ctx, "hello")
	assert.Equal(t, "watch-1", decode(t, buf)["peer"])

	buf.Reset()
	log.InfoContext(context.Background(), "hello")
	_, ok := decode(t, buf)["peer"]
	assert.False(t, ok)
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { logger.OrNop(nil).Info("discarded") })
	l := logger.New()
	assert.Same(t, l, logger.OrNop(l))
}
