// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

func convertCommand(app *App) *cli.Command {
	var (
		options     channelOptions
		fromVariant string
		toVariant   string
	)

	return &cli.Command{
		Name:    "convert",
		Summary: "Re-encode a channel file in another variant",
		Description: `Read SRC as --from and write DEST as --to. Both variants must be
named; nothing is guessed from the content. DEST is replaced
atomically and may be the same path as SRC.

Use this to migrate fixtures written in the deprecated base64 variants
to the escape variant.`,
		Usage: "pipeliner-ipc convert --from VARIANT --to VARIANT SRC DEST",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&fromVariant, "from", "", "variant SRC is written in (required)")
			flagSet.StringVar(&toVariant, "to", "", "variant to write DEST in (required)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Migrate a base64 fixture in place",
				Command:     "pipeliner-ipc convert --from base64 --to escape fixture.ipc fixture.ipc",
			},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.UsageErrorf("convert requires SRC and DEST")
			}
			if fromVariant == "" || toVariant == "" {
				return cli.UsageErrorf("convert requires both --from and --to")
			}
			from, err := ipc.ParseVariant(fromVariant)
			if err != nil {
				return cli.UsageErrorf("--from: %v", err)
			}
			to, err := ipc.ParseVariant(toVariant)
			if err != nil {
				return cli.UsageErrorf("--to: %v", err)
			}
			s, err := app.setup("convert", &options)
			if err != nil {
				return err
			}

			source, err := s.channel.ResolvePath(args[0])
			if err != nil {
				return err
			}
			reader := *s.channel
			reader.Variant = from
			properties, err := reader.Receive(source)
			if err != nil {
				return err
			}

			writer := *s.channel
			writer.Variant = to
			if err := writer.Send(args[1], properties); err != nil {
				return err
			}
			s.logger.Info("converted channel file",
				"source", source, "destination", args[1],
				"from", from.String(), "to", to.String(),
				"entries", len(properties))
			return nil
		},
	}
}
