// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

func mktempCommand(app *App) *cli.Command {
	var (
		options   channelOptions
		directory string
		prefix    string
		count     int
	)

	return &cli.Command{
		Name:    "mktemp",
		Summary: "Create an empty channel file and print its path",
		Description: `Create an empty channel file, readable and writable only by the
owner, and print its absolute path.

Names are unique across processes and threads, so host scripts can
allocate PIPELINER_IPC_IN and PIPELINER_IPC_OUT without coordination.
The caller owns the files and must remove them with "cleanup". If the
command is interrupted or fails part way, the files it already created
are removed unless PIPELINER_DISABLE_SHUTDOWN_HOOK is "true" or "1".`,
		Usage: "pipeliner-ipc mktemp [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("mktemp", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&directory, "directory", "", "directory for the file (default channel.directory from config)")
			flagSet.StringVar(&prefix, "prefix", "", "file name prefix (default channel.prefix from config)")
			flagSet.IntVarP(&count, "count", "n", 1, "number of files to create, one path per line")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Allocate both channel files for an extension",
				Command:     `export PIPELINER_IPC_IN=$(pipeliner-ipc mktemp) PIPELINER_IPC_OUT=$(pipeliner-ipc mktemp)`,
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.UsageErrorf("mktemp takes no arguments, got %q", args)
			}
			if count < 1 {
				return cli.UsageErrorf("--count must be at least 1, got %d", count)
			}
			s, err := app.setup("mktemp", &options)
			if err != nil {
				return err
			}
			if directory != "" {
				s.channel.Directory = directory
			}
			if prefix != "" {
				s.channel.Prefix = prefix
			}

			// The batch has its own registry so an interrupted or failed
			// run removes only the files it created.
			s.channel.Registry = &ipc.Registry{}
			ctx, stop := s.channel.NotifyContext(context.Background(), app.Getenv)
			defer stop()

			created := make([]string, 0, count)
			for range count {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("mktemp interrupted: %w", err)
				}
				path, err := s.channel.CreateFile()
				if err != nil {
					return err
				}
				created = append(created, path)
			}
			for _, path := range created {
				s.channel.Release(path)
			}
			for _, path := range created {
				fmt.Fprintln(app.Stdout, path)
			}
			return nil
		},
	}
}

func cleanupCommand(app *App) *cli.Command {
	var options channelOptions

	return &cli.Command{
		Name:    "cleanup",
		Summary: "Remove channel files",
		Description: `Remove channel files. A file that is already gone is not an
error. Every path is attempted even when an earlier one fails.`,
		Usage: "pipeliner-ipc cleanup [flags] PATH...",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cleanup", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Remove both channel files after the extension exits",
				Command:     `pipeliner-ipc cleanup "$PIPELINER_IPC_IN" "$PIPELINER_IPC_OUT"`,
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.UsageErrorf("cleanup requires at least one PATH")
			}
			s, err := app.setup("cleanup", &options)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range args {
				errs = append(errs, s.channel.Cleanup(path))
			}
			return errors.Join(errs...)
		},
	}
}
