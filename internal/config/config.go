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

	"github.com/five82/snapback/internal/state"
)

// Config holds the resolved client settings.
type Config struct {
	BaseURL            string
	RequestTimeout     time.Duration
	MinRequestInterval time.Duration
	ListPolicy         state.ListPolicy
	LogFile            string
	LogLevel           slog.Level
}

const (
	defaultConfigPath = "~/.config/snapback/config.toml"
	defaultLogFile    = "~/.local/state/snapback/snapback.log"
	defaultBaseURL    = "127.0.0.1:4000"
)

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:  defaultBaseURL,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: slog.LevelInfo,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL            string  `toml:"base_url"`
		RequestTimeout     string  `toml:"request_timeout"`
		MinRequestInterval string  `toml:"min_request_interval"`
		ListPolicy         string  `toml:"list_policy"`
		LogFile            *string `toml:"log_file"`
		LogLevel           string  `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MinRequestInterval, err = parseDuration("min_request_interval", raw.MinRequestInterval); err != nil {
		return Config{}, err
	}
	if cfg.ListPolicy, err = state.ParseListPolicy(raw.ListPolicy); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if raw.LogFile != nil {
		// An explicit empty log_file disables logging.
		cfg.LogFile = ""
		if v := strings.TrimSpace(*raw.LogFile); v != "" {
			cfg.LogFile = mustExpand(v)
		}
	}
	if cfg.LogLevel, err = ParseLevel(raw.LogLevel); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ParseLevel maps debug/info/warn/error to a slog level. Empty is info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(trimmed)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
