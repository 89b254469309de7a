package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONWriter_WritesKeyValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).Named("resolver")

	logger.Warn("athlete missing", "category_id", int64(7), "error", errors.New("boom"))
	logger.Debug("hidden below level")
	require.NoError(t, logger.Zap().Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"athlete missing"`)
	assert.Contains(t, out, `"category_id":7`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"component":"resolver"`)
	assert.NotContains(t, out, "hidden below level")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestZapFields_OddArgsAndNonStringKeys(t *testing.T) {
	t.Parallel()

	fields := zapFields([]any{42, "value", "dangling"})
	require.Len(t, fields, 2)
	assert.Equal(t, "arg", fields[0].Key)
	assert.Equal(t, "dangling", fields[1].Key)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("no receiver")
		_ = logger.With("k", "v")
		_ = logger.Named("x")
	})
}
