// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/interchange"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

func receiveCommand(app *App) *cli.Command {
	var (
		options   channelOptions
		inputPath string
		format    string
	)

	return &cli.Command{
		Name:    "receive",
		Summary: "Print the properties passed to this extension",
		Description: `Read the input channel file and print its properties.

The file is $PIPELINER_IPC_IN unless --in names another. The default
output is the channel format itself (escape variant, sorted keys);
--format json or yaml print an interchange document instead.

With PIPELINER_TRACE=true every environment variable and received
property is also logged at debug level on stderr.`,
		Usage: "pipeliner-ipc receive [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("receive", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&inputPath, "in", "", "input channel file (default $"+ipc.EnvInput+")")
			flagSet.StringVar(&format, "format", "properties", "output format: properties, json, yaml or cbor-diag")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Read one property in a shell extension",
				Command:     `pipeliner-ipc receive --format json | jq -r '."pipeline.id"'`,
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.UsageErrorf("receive takes no arguments, got %q", args)
			}
			s, err := app.setup("receive", &options)
			if err != nil {
				return err
			}

			var properties ipc.Properties
			if inputPath != "" {
				path, err := s.channel.ResolvePath(inputPath)
				if err != nil {
					return err
				}
				properties, err = s.channel.Receive(path)
				if err != nil {
					return err
				}
			} else {
				properties, err = s.channel.ReceiveEnvironment(s.env)
				if err != nil {
					return err
				}
			}
			app.trace(s, "received property", properties)

			if format == "properties" {
				return ipc.Write(app.Stdout, properties, ipc.VariantEscape)
			}
			outputFormat, err := interchange.ParseFormat(format)
			if err != nil || !outputFormat.Exportable() || outputFormat.Binary() {
				return cli.UsageErrorf("--format must be properties, json, yaml or cbor-diag, got %q", format)
			}
			data, err := interchange.Marshal(properties, outputFormat)
			if err != nil {
				return err
			}
			_, err = app.Stdout.Write(data)
			return err
		},
	}
}
