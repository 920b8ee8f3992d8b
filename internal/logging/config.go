package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "CLICKTRANS_LOG_LEVEL"
	EnvLogTimestamp = "CLICKTRANS_LOG_TIMESTAMP"
	EnvLogNoColor   = "CLICKTRANS_LOG_NOCOLOR"
	EnvLogFile      = "CLICKTRANS_LOG_FILE"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Options come from the host config file; env vars override them.
type Options struct {
	Level string
	File  string
}

type settings struct {
	level     zerolog.Level
	timestamp bool
	noColor   bool
	file      string
}

var (
	configureOnce sync.Once
	logFile       *os.File
)

func ConfigureRuntime(opts Options) zerolog.Logger {
	return Configure(ProfileRuntime, opts)
}

func ConfigureTests() zerolog.Logger {
	return Configure(ProfileTest, Options{})
}

// Configure installs the global logger once. Output always goes to
// stderr: stdout carries protocol frames only.
func Configure(profile Profile, opts Options) zerolog.Logger {
	configureOnce.Do(func() {
		cfg := defaultSettings(profile)
		applyOptions(&cfg, opts)
		applyEnvOverrides(&cfg)
		log.Logger = build(cfg, os.Stderr)
		zerolog.SetGlobalLevel(cfg.level)
	})
	return log.Logger
}

// Close releases the optional log file.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func build(cfg settings, stderr io.Writer) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        stderr,
		NoColor:    cfg.noColor,
		TimeFormat: time.RFC3339,
	}
	if cfg.file != "" {
		if f, err := openLogFile(cfg.file); err == nil {
			logFile = f
			out = zerolog.MultiLevelWriter(out, f)
		} else {
			l := zerolog.New(out)
			l.Warn().Err(err).Str("path", cfg.file).Msg("log file unavailable")
		}
	}
	ctx := zerolog.New(out).Level(cfg.level).With().Str("app", "clicktrans-host")
	if cfg.timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func defaultSettings(profile Profile) settings {
	switch profile {
	case ProfileTest:
		return settings{level: zerolog.DebugLevel, timestamp: false, noColor: true}
	default:
		return settings{level: zerolog.InfoLevel, timestamp: true}
	}
}

func applyOptions(cfg *settings, opts Options) {
	if lvl, ok := ParseLevel(opts.Level); ok {
		cfg.level = lvl
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		cfg.file = f
	}
}

func applyEnvOverrides(cfg *settings) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.noColor = v
	}
	if f := strings.TrimSpace(os.Getenv(EnvLogFile)); f != "" {
		cfg.file = f
	}
}

// ParseLevel maps a config/env level name to a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
