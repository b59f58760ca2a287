package planar

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelFromEnv(t *testing.T) {
	cases := []struct {
		value string
		level slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelWarn},
		{"bogus", slog.LevelWarn},
	}

	original := os.Getenv("PLANAR_LOG_LEVEL")
	defer os.Setenv("PLANAR_LOG_LEVEL", original)

	for _, tc := range cases {
		os.Setenv("PLANAR_LOG_LEVEL", tc.value)
		assert.Equal(t, tc.level, logLevelFromEnv(), "value %q", tc.value)
	}
}

func TestAssertReportsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer SetLogger(nil)

	AssertMsg(true, "should not log")
	assert.Zero(t, buf.Len())

	AssertMsg(false, "contract violated")
	require.NotZero(t, buf.Len())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "contract violated", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
}
