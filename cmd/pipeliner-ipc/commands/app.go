// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the pipeliner-ipc command tree.
//
// Every command runs against an [App], which carries the process
// streams and environment so tests can drive commands without touching
// the real ones.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/config"
	"github.com/verifyica/pipeliner-ipc/lib/interchange"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

// App is the process context commands run in.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Getenv looks up one environment variable.
	Getenv func(string) string

	// Environ returns the whole environment for trace output.
	Environ func() []string
}

// Stdio returns an App bound to the real process streams and
// environment.
func Stdio() *App {
	return &App{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}

// channelOptions are the flags every channel-touching command accepts.
type channelOptions struct {
	configPath string
	variant    string
}

func (o *channelOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.configPath, "config", "", "config file (default $"+config.EnvConfig+")")
	flagSet.StringVar(&o.variant, "variant", "", "channel encoding: escape, base64 or base64-keys (default from config)")
}

// session is the per-invocation state a command works with.
type session struct {
	env     ipc.Environment
	config  *config.Config
	channel *ipc.Channel
	logger  *slog.Logger
}

// setup loads configuration, builds the command logger and configures
// the channel. PIPELINER_TRACE=true lowers the log level to debug.
func (a *App) setup(command string, options *channelOptions) (*session, error) {
	env := ipc.LoadEnvironment(a.Getenv)

	configPath := options.configPath
	if configPath == "" {
		configPath = a.Getenv(config.EnvConfig)
	}
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	if options.variant != "" {
		cfg.Channel.Variant = options.variant
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if env.Trace {
		level = slog.LevelDebug
	}
	logger := cli.NewCommandLogger(a.Stderr, level, cfg.Log.Format).With("command", command)

	channel, err := cfg.NewChannel(logger)
	if err != nil {
		return nil, cli.UsageErrorf("%v", err)
	}
	return &session{env: env, config: cfg, channel: channel, logger: logger}, nil
}

// trace echoes the environment and a property map at debug level.
func (a *App) trace(s *session, label string, properties ipc.Properties) {
	if !s.env.Trace {
		return
	}
	if a.Environ != nil {
		for _, entry := range a.Environ() {
			name, value, _ := strings.Cut(entry, "=")
			s.logger.Debug("environment", "name", name, "value", value)
		}
	}
	for _, key := range properties.Keys() {
		s.logger.Debug(label, "key", key, "value", properties[key])
	}
}

// openInput opens path for reading, with "-" meaning stdin.
func (a *App) openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(a.Stdin), nil
	}
	return os.Open(path)
}

// documentFormat returns the explicit import format, or infers one
// from the file extension, defaulting to fallback.
func documentFormat(explicit, path string, fallback interchange.Format) (interchange.Format, error) {
	if explicit != "" {
		format, err := interchange.ParseFormat(explicit)
		if err != nil {
			return "", cli.UsageErrorf("--format: %v", err)
		}
		if !format.Importable() {
			return "", cli.UsageErrorf("--format must be one of %v, got %q", interchange.ImportFormats, explicit)
		}
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return interchange.FormatJSON, nil
	case ".jsonc":
		return interchange.FormatJSONC, nil
	case ".yaml", ".yml":
		return interchange.FormatYAML, nil
	case ".cbor":
		return interchange.FormatCBOR, nil
	}
	return fallback, nil
}
