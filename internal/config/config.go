// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package config loads runtime configuration from an optional YAML
// file overlaid with command-line flags. Flags win over the file,
// which wins over built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all runtime settings.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database_url"`

	// AdminBypass makes host admins resolve to the full permission set
	// everywhere. Can be disabled to let admins test as ordinary actors.
	AdminBypass bool `koanf:"admin_bypass"`

	// HeightTop and HeightBottom bound the vertical span of region
	// selections.
	HeightTop    int `koanf:"height_top"`
	HeightBottom int `koanf:"height_bottom"`

	// PresetsDir holds extra permission preset files. Empty means
	// builtins only.
	PresetsDir string `koanf:"presets_dir"`

	// LogFormat is "text" or "json". LogLevel is debug/info/warn/error.
	LogFormat string `koanf:"log_format"`
	LogLevel  string `koanf:"log_level"`

	// ObservabilityAddr is the listen address for the metrics and
	// health endpoints. Empty disables the listener.
	ObservabilityAddr string `koanf:"observability_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AdminBypass:       true,
		HeightTop:         1000,
		HeightBottom:      -1000,
		LogFormat:         "text",
		LogLevel:          "info",
		ObservabilityAddr: "localhost:9090",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped
// when path is empty), and the given flag set (skipped when nil).
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.With("path", path).Wrapf(err, "loading config file")
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Wrapf(err, "loading flags")
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Wrapf(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports structurally invalid settings. DatabaseURL is not
// required here; commands that need it check for themselves.
func (c Config) Validate() error {
	if c.HeightBottom > c.HeightTop {
		return fmt.Errorf("height_bottom %d above height_top %d", c.HeightBottom, c.HeightTop)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel into a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}
