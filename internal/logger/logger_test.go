package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" Warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDefaultConfigReadsEnv(t *testing.T) {
	t.Setenv("MPVQ_LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, DefaultConfig().Level)

	t.Setenv("MPVQ_LOG_LEVEL", "nonsense")
	assert.Equal(t, slog.LevelInfo, DefaultConfig().Level)
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, Config{Level: slog.LevelInfo, Format: "json"}).Info("hello", slog.Int("n", 1))
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"n":1`)

	buf.Reset()
	NewLogger(&buf, Config{Level: slog.LevelWarn}).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpvq.log")

	log, f, err := OpenFile(path, Config{Level: slog.LevelInfo})
	require.NoError(t, err)
	log.Info("first")
	require.NoError(t, f.Close())

	log, f, err = OpenFile(path, Config{Level: slog.LevelInfo})
	require.NoError(t, err)
	log.Info("second")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}
