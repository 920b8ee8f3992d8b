package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"disabled": zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParseLevel("")
	assert.False(t, ok)
	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}

func TestEnvOverridesOptions(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	cfg := defaultSettings(ProfileRuntime)
	applyOptions(&cfg, Options{Level: "debug"})
	assert.Equal(t, zerolog.DebugLevel, cfg.level)
	applyEnvOverrides(&cfg)
	assert.Equal(t, zerolog.ErrorLevel, cfg.level)
	assert.False(t, cfg.timestamp)
}

func TestBuildWritesToGivenStreamAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "host.log")
	var stderr bytes.Buffer
	logger := build(settings{level: zerolog.InfoLevel, noColor: true, file: path}, &stderr)
	logger.Info().Str("key", "common.logout").Msg("edit applied")
	logger.Debug().Msg("hidden")
	require.NoError(t, Close())

	assert.Contains(t, stderr.String(), "edit applied")
	assert.NotContains(t, stderr.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"key":"common.logout"`))
}

func TestBuildFallsBackWhenLogFileUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	var stderr bytes.Buffer
	logger := build(settings{level: zerolog.InfoLevel, noColor: true, file: filepath.Join(blocker, "host.log")}, &stderr)
	logger.Info().Msg("still logging")
	require.NoError(t, Close())

	assert.Contains(t, stderr.String(), "log file unavailable")
	assert.Contains(t, stderr.String(), "still logging")
}
