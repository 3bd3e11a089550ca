// Package config defines the tool's configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pable/go-pbp-lineups/internal/lineup"
	"github.com/pable/go-pbp-lineups/internal/resolver"
)

const (
	envPrefix     = "PBP_"
	envConfigPath = "PBP_CONFIG"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Workers is the number of games recomputed concurrently by batch runs.
	Workers int `koanf:"workers"`

	// OverflowPolicy is "reject" or "truncate".
	OverflowPolicy string `koanf:"overflow_policy"`

	// SubMarkers are the localized substitution words matched in event descriptions.
	SubMarkers []string `koanf:"sub_markers"`

	// MetricsFile, when set, receives Prometheus text-format run metrics.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		DBPath:         filepath.Join(userHome(), ".pbplineups", "lineups.db"),
		LogLevel:       "info",
		Workers:        runtime.NumCPU(),
		OverflowPolicy: "reject",
		SubMarkers:     append([]string(nil), resolver.DefaultMarkers...),
	}
}

// Load layers defaults, an optional YAML file, and PBP_* environment variables.
// path overrides PBP_CONFIG when non-empty.
func Load(path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// PBP_DB_PATH -> db_path; PBP_SUB_MARKERS is comma separated.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "sub_markers" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	// Slices are decoded into a nil field so a shorter list replaces the default.
	cfg := *base
	cfg.SubMarkers = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if len(cfg.SubMarkers) == 0 {
		cfg.SubMarkers = base.SubMarkers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := lineup.ParseOverflowPolicy(c.OverflowPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Overflow returns the parsed overflow policy. Call after Validate.
func (c *Config) Overflow() lineup.OverflowPolicy {
	p, _ := lineup.ParseOverflowPolicy(c.OverflowPolicy)
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
