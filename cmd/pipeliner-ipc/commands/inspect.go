// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

func inspectCommand(app *App) *cli.Command {
	var (
		options  channelOptions
		showKeys bool
	)

	return &cli.Command{
		Name:    "inspect",
		Summary: "Summarize a channel file",
		Description: `Read a channel file and print its entry count, encoding variant
and content digest. The digest is a keyed BLAKE3 hash over the sorted
entries: two files with equal maps have equal digests whatever their
line order, comments or variant.

The variant is never detected from the content. A file written with a
different variant than --variant fails to parse or, for the escape
variant, fails with a version marker mismatch.`,
		Usage: "pipeliner-ipc inspect [flags] PATH",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.BoolVar(&showKeys, "keys", false, "also list the keys")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Check whether two runs produced the same output",
				Command:     "pipeliner-ipc inspect run1.out && pipeliner-ipc inspect run2.out",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.UsageErrorf("inspect requires exactly one PATH")
			}
			s, err := app.setup("inspect", &options)
			if err != nil {
				return err
			}

			path, err := s.channel.ResolvePath(args[0])
			if err != nil {
				return err
			}
			properties, err := s.channel.Receive(path)
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(app.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintf(writer, "path:\t%s\n", path)
			fmt.Fprintf(writer, "variant:\t%s\n", s.channel.Variant)
			fmt.Fprintf(writer, "entries:\t%d\n", len(properties))
			fmt.Fprintf(writer, "digest:\t%s\n", ipc.Digest(properties))
			if showKeys {
				for _, key := range properties.Keys() {
					fmt.Fprintf(writer, "key:\t%s\n", key)
				}
			}
			return writer.Flush()
		},
	}
}
