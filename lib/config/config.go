// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

// EnvConfig names the environment variable [Load] reads the config
// file path from.
const EnvConfig = "PIPELINER_IPC_CONFIG"

// Log formats accepted in log.format.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the configuration for the pipeliner-ipc command.
type Config struct {
	// Channel configures channel file creation and encoding.
	Channel ChannelConfig `yaml:"channel"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`
}

// ChannelConfig configures channel files.
type ChannelConfig struct {
	// Directory is where mktemp creates channel files.
	// Default: ${TMPDIR:-/tmp}
	Directory string `yaml:"directory"`

	// Prefix starts every created file name.
	// Default: pipeliner-ipc-
	Prefix string `yaml:"prefix"`

	// Variant is the wire encoding: escape, base64 or base64-keys.
	// Host and extension must agree on it.
	// Default: escape
	Variant string `yaml:"variant"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn or error. Trace
	// mode (PIPELINER_TRACE=true) forces debug regardless.
	// Default: info
	Level string `yaml:"level"`

	// Format is "text", "json", or "auto" (text on a terminal, JSON
	// otherwise).
	// Default: auto
	Format string `yaml:"format"`
}

// Default returns the default configuration. A file loaded by
// [LoadFile] is merged on top of it, so omitted fields keep these
// values.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{
			Directory: "${TMPDIR:-/tmp}",
			Prefix:    ipc.DefaultPrefix,
			Variant:   ipc.VariantEscape.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatAuto,
		},
	}
}

// Load loads configuration from the file named by PIPELINER_IPC_CONFIG.
// When the variable is unset the defaults are returned.
func Load() (*Config, error) {
	return Resolve(os.Getenv(EnvConfig))
}

// Resolve loads path with [LoadFile], or returns the expanded defaults
// when path is empty. Commands call it with the --config flag value,
// falling back to PIPELINER_IPC_CONFIG.
func Resolve(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, validates it,
// and expands variables in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":   os.Getenv("HOME"),
		"TMPDIR": os.Getenv("TMPDIR"),
	}
	c.Channel.Directory = expandVars(c.Channel.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, checking vars
// before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Channel.Directory == "" {
		errs = append(errs, errors.New("channel.directory is required"))
	}
	if _, err := ipc.ParseVariant(c.Channel.Variant); err != nil {
		errs = append(errs, fmt.Errorf("channel.variant: %w", err))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	formats := []string{FormatAuto, FormatText, FormatJSON}
	if !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	return errors.Join(errs...)
}

// Variant returns the parsed channel variant.
func (c *Config) Variant() (ipc.Variant, error) {
	return ipc.ParseVariant(c.Channel.Variant)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// NewChannel returns an [ipc.Channel] configured from the channel
// section, logging to logger.
func (c *Config) NewChannel(logger *slog.Logger) (*ipc.Channel, error) {
	variant, err := c.Variant()
	if err != nil {
		return nil, err
	}
	return &ipc.Channel{
		Directory: c.Channel.Directory,
		Prefix:    c.Channel.Prefix,
		Variant:   variant,
		Logger:    logger,
	}, nil
}
