// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/version"
)

// Root builds and returns the complete pipeliner-ipc command tree.
func Root(app *App) *cli.Command {
	var showVersion bool

	root := &cli.Command{
		Name:       "pipeliner-ipc",
		HelpOutput: app.Stderr,
		Description: `pipeliner-ipc: read and write pipeliner channel files.

A pipeline step hands properties to an extension process through the
file named by PIPELINER_IPC_IN and reads the extension's results back
from PIPELINER_IPC_OUT. This tool lets shell-script extensions and
operators work with those files directly.

Exit status is 0 on success, 1 when a channel file cannot be found,
read or written, and 2 when its content is malformed.`,
		Subcommands: []*cli.Command{
			receiveCommand(app),
			sendCommand(app),
			mktempCommand(app),
			cleanupCommand(app),
			inspectCommand(app),
			convertCommand(app),
			exportCommand(app),
			importCommand(app),
			versionCommand(app),
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pipeliner-ipc", pflag.ContinueOnError)
			flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Print the properties the pipeline passed in",
				Command:     "pipeliner-ipc receive",
			},
			{
				Description: "Hand results back to the pipeline",
				Command:     "pipeliner-ipc send build.status=ok build.artifact=dist/app.tar",
			},
			{
				Description: "Show a channel file as JSON",
				Command:     "pipeliner-ipc export --format json /tmp/pipeliner-ipc-1234-1-0a1b2c3d4e5f6a7b",
			},
		},
	}

	root.Run = func(args []string) error {
		if showVersion {
			fmt.Fprintf(app.Stdout, "pipeliner-ipc %s\n", version.Info())
			return nil
		}
		root.PrintHelp(app.Stderr)
		if len(args) > 0 {
			return cli.UsageErrorf("unknown command %q", args[0])
		}
		return cli.UsageErrorf("subcommand required")
	}

	return root
}

func versionCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			fmt.Fprintf(app.Stdout, "pipeliner-ipc %s\n", version.Full())
			return nil
		},
	}
}
