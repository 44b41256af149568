package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddress = "localhost:50051"
	DefaultTimeout = 5 * time.Second
)

type Config struct {
	// Address seeds the TUI address field and is the default target for CLI
	// commands. The TUI always reads the field itself at call time.
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	TUI     TUIConfig     `yaml:"tui"`
}

type LogConfig struct {
	// File receives TUI logs, and a copy of CLI logs. Empty disables TUI
	// logging.
	File string `yaml:"file,omitempty"`
	// Level is a zap level name. Empty means info for the TUI log file and
	// warn for CLI commands.
	Level string `yaml:"level,omitempty"`
}

type MetricsConfig struct {
	// Listen, when set, serves Prometheus metrics at http://<listen>/metrics.
	Listen string `yaml:"listen,omitempty"`
}

type TUIConfig struct {
	// Profile selects the color profile ("default" or "mono").
	Profile string `yaml:"profile,omitempty"`
}

func Default() Config {
	return Config{
		Address: DefaultAddress,
		Timeout: DefaultTimeout,
		TUI:     TUIConfig{Profile: "default"},
	}
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.phonebook).
	if v := strings.TrimSpace(os.Getenv("PHONEBOOK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".phonebook"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path (or the default location when path is empty), fills in
// defaults and applies PHONEBOOK_* environment overrides. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		var file Config
		if err := yaml.Unmarshal(b, &file); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		merge(&cfg, file)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func merge(dst *Config, src Config) {
	if v := strings.TrimSpace(src.Address); v != "" {
		dst.Address = v
	}
	if src.Timeout > 0 {
		dst.Timeout = src.Timeout
	}
	if v := strings.TrimSpace(src.Log.File); v != "" {
		dst.Log.File = v
	}
	if v := strings.TrimSpace(src.Log.Level); v != "" {
		dst.Log.Level = v
	}
	if v := strings.TrimSpace(src.Metrics.Listen); v != "" {
		dst.Metrics.Listen = v
	}
	if v := strings.TrimSpace(src.TUI.Profile); v != "" {
		dst.TUI.Profile = v
	}
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("PHONEBOOK_ADDR")); v != "" {
		cfg.Address = v
	}
	if v := strings.TrimSpace(os.Getenv("PHONEBOOK_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PHONEBOOK_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("PHONEBOOK_TIMEOUT: must be positive, got %s", v)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("PHONEBOOK_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(os.Getenv("PHONEBOOK_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("PHONEBOOK_METRICS_LISTEN")); v != "" {
		cfg.Metrics.Listen = v
	}
	return nil
}

// Save writes cfg to path (or the default location) atomically, keeping a
// copy of the previous file as <path>.bak.
func Save(path string, cfg Config) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Best-effort: ignore backup errors to avoid blocking normal usage.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
