// Package config loads clipvault's TOML configuration.
//
// Load resolves the file in this order:
//
//  1. the explicit path, when one is given
//  2. ~/.config/clipvault/config.toml
//  3. built-in defaults when the file does not exist
//
// Empty or whitespace-only values fall back to their defaults. Paths accept
// a leading "~". CLIPVAULT_DATA_DIR, when set, overrides data_dir.
//
// Example config.toml:
//
//	data_dir = "~/.clipvault"
//	poll_interval = "500ms"
//	list_limit = 1000
//	resolver_timeout = "750ms"
//	log_level = "info"
//	log_format = "text"
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// EnvDataDir overrides the data_dir key.
const EnvDataDir = "CLIPVAULT_DATA_DIR"

const (
	defaultConfigPath      = "~/.config/clipvault/config.toml"
	defaultDataDir         = "~/.clipvault"
	defaultPollInterval    = 500 * time.Millisecond
	defaultListLimit       = 1000
	defaultResolverTimeout = 750 * time.Millisecond
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

// Config is the resolved runtime configuration.
type Config struct {
	DataDir         string
	PollInterval    time.Duration
	ListLimit       int
	ResolverTimeout time.Duration
	LogLevel        string
	LogFormat       string
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir:         mustExpand(defaultDataDir),
		PollInterval:    defaultPollInterval,
		ListLimit:       defaultListLimit,
		ResolverTimeout: defaultResolverTimeout,
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg)
		}
		return Config{}, fmt.Errorf("config: open: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}

	var raw struct {
		DataDir         string `toml:"data_dir"`
		PollInterval    string `toml:"poll_interval"`
		ListLimit       int    `toml:"list_limit"`
		ResolverTimeout string `toml:"resolver_timeout"`
		LogLevel        string `toml:"log_level"`
		LogFormat       string `toml:"log_format"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", resolved, err)
	}

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		if cfg.DataDir, err = expandPath(dir); err != nil {
			return Config{}, fmt.Errorf("config: data_dir: %w", err)
		}
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, defaultPollInterval); err != nil {
		return Config{}, err
	}
	if cfg.ResolverTimeout, err = parseDuration("resolver_timeout", raw.ResolverTimeout, defaultResolverTimeout); err != nil {
		return Config{}, err
	}
	if raw.ListLimit > 0 {
		cfg.ListLimit = raw.ListLimit
	}
	if lvl := strings.ToLower(strings.TrimSpace(raw.LogLevel)); lvl != "" {
		if _, err := parseLevel(lvl); err != nil {
			return Config{}, err
		}
		cfg.LogLevel = lvl
	}
	if format := strings.ToLower(strings.TrimSpace(raw.LogFormat)); format != "" {
		if format != "text" && format != "json" {
			return Config{}, fmt.Errorf("config: log_format %q: want text or json", format)
		}
		cfg.LogFormat = format
	}

	return applyEnv(cfg)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger builds the process logger. w is normally os.Stderr, since
// stdout carries the MCP stdio transport.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func applyEnv(cfg Config) (Config, error) {
	dir := strings.TrimSpace(os.Getenv(EnvDataDir))
	if dir == "" {
		return cfg, nil
	}
	expanded, err := expandPath(dir)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", EnvDataDir, err)
	}
	cfg.DataDir = expanded
	return cfg, nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, value)
	}
	return d, nil
}

func parseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", name, err)
	}
	return lvl, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
