package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/clicktrans/internal/protocol/frame"
	"github.com/danmuck/clicktrans/internal/resource"
)

// EnvConfigPath overrides the default config location. Browsers launch
// the host without arguments, so the file cannot be passed as a flag.
const EnvConfigPath = "CLICKTRANS_CONFIG"

const DefaultBackupSuffix = ".backup-"

// HostConfig is the native messaging host configuration.
type HostConfig struct {
	Namespaces       []string
	LogLevel         string
	LogFile          string
	MetricsTextfile  string
	MaxInboundBytes  uint32
	MaxOutboundBytes uint32
	BackupSuffix     string
}

type fileConfig struct {
	Namespaces       []string `toml:"namespaces"`
	LogLevel         string   `toml:"log_level"`
	LogFile          string   `toml:"log_file"`
	MetricsTextfile  string   `toml:"metrics_textfile"`
	MaxInboundBytes  uint32   `toml:"max_inbound_bytes"`
	MaxOutboundBytes uint32   `toml:"max_outbound_bytes"`
	BackupSuffix     string   `toml:"backup_suffix"`
}

// DefaultNamespaces is the search priority: reviewed strings first, the
// legacy file as fallback.
func DefaultNamespaces() []string {
	return []string{"reviewed", "old"}
}

func DefaultHostConfig() HostConfig {
	limits := frame.DefaultLimits()
	return HostConfig{
		Namespaces:       DefaultNamespaces(),
		LogLevel:         "info",
		MaxInboundBytes:  limits.MaxInboundBytes,
		MaxOutboundBytes: limits.MaxOutboundBytes,
		BackupSuffix:     DefaultBackupSuffix,
	}
}

// DefaultPath returns $CLICKTRANS_CONFIG or <user config dir>/clicktrans/host.toml.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "host.toml")
	}
	return filepath.Join(dir, "clicktrans", "host.toml")
}

// LoadHostConfig reads path over the defaults. A missing file yields the
// defaults unchanged.
func LoadHostConfig(path string) (HostConfig, error) {
	cfg := DefaultHostConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return HostConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if meta.IsDefined("namespaces") {
		cfg.Namespaces = normalizeNamespaces(raw.Namespaces)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}
	if meta.IsDefined("max_inbound_bytes") {
		cfg.MaxInboundBytes = raw.MaxInboundBytes
	}
	if meta.IsDefined("max_outbound_bytes") {
		cfg.MaxOutboundBytes = raw.MaxOutboundBytes
	}
	if meta.IsDefined("backup_suffix") {
		cfg.BackupSuffix = raw.BackupSuffix
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return HostConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if err := ValidateHostConfig(cfg); err != nil {
		return HostConfig{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func ValidateHostConfig(cfg HostConfig) error {
	if len(cfg.Namespaces) == 0 {
		return fmt.Errorf("namespaces must not be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Namespaces))
	for i, ns := range cfg.Namespaces {
		if err := resource.ValidName(ns); err != nil {
			return fmt.Errorf("namespaces[%d] invalid: %w", i, err)
		}
		if _, dup := seen[ns]; dup {
			return fmt.Errorf("namespaces[%d] duplicate: %q", i, ns)
		}
		seen[ns] = struct{}{}
	}
	if cfg.MaxInboundBytes == 0 {
		return fmt.Errorf("max_inbound_bytes must be positive")
	}
	if cfg.MaxOutboundBytes == 0 {
		return fmt.Errorf("max_outbound_bytes must be positive")
	}
	if cfg.BackupSuffix == "" || strings.ContainsAny(cfg.BackupSuffix, `/\`) {
		return fmt.Errorf("backup_suffix invalid: %q", cfg.BackupSuffix)
	}
	return nil
}

// Limits returns the frame limits for this config.
func (c HostConfig) Limits() frame.Limits {
	return frame.Limits{
		MaxInboundBytes:  c.MaxInboundBytes,
		MaxOutboundBytes: c.MaxOutboundBytes,
	}
}

func normalizeNamespaces(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ns := range in {
		ns = strings.TrimSpace(ns)
		if ns != "" {
			out = append(out, ns)
		}
	}
	return out
}
