// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/interchange"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

func sendCommand(app *App) *cli.Command {
	var (
		options    channelOptions
		outputPath string
		fromPath   string
		format     string
	)

	return &cli.Command{
		Name:    "send",
		Summary: "Write properties back to the pipeline",
		Description: `Write properties to the output channel file.

The file is $PIPELINER_IPC_OUT unless --out names another; either way
it must already exist, because the host creates it. The file is
replaced atomically, so sending twice keeps only the second map.

Properties come from KEY=VALUE arguments, from a document named by
--from ("-" for stdin), or both; arguments override the document.
The document format is taken from --format or the file extension.`,
		Usage: "pipeliner-ipc send [flags] [KEY=VALUE...]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("send", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&outputPath, "out", "", "output channel file (default $"+ipc.EnvOutput+")")
			flagSet.StringVar(&fromPath, "from", "", "read properties from a json, jsonc, yaml or cbor document")
			flagSet.StringVar(&format, "format", "", "format of --from (default from its extension, else json)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Report a result",
				Command:     "pipeliner-ipc send build.status=ok",
			},
			{
				Description: "Send a prepared YAML document plus one override",
				Command:     "pipeliner-ipc send --from results.yaml build.attempt=2",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 && fromPath == "" {
				return cli.UsageErrorf("nothing to send: give KEY=VALUE arguments or --from")
			}
			s, err := app.setup("send", &options)
			if err != nil {
				return err
			}

			properties := ipc.Properties{}
			if fromPath != "" {
				inputFormat, err := documentFormat(format, fromPath, interchange.FormatJSON)
				if err != nil {
					return err
				}
				document, err := app.readDocument(fromPath, inputFormat)
				if err != nil {
					return err
				}
				properties.Merge(document)
			}
			assigned, err := parseAssignments(args)
			if err != nil {
				return err
			}
			properties.Merge(assigned)
			app.trace(s, "sending property", properties)

			if outputPath != "" {
				path, err := s.channel.ResolvePath(outputPath)
				if err != nil {
					return err
				}
				return s.channel.Send(path, properties)
			}
			return s.channel.SendEnvironment(s.env, properties)
		},
	}
}

// parseAssignments turns KEY=VALUE arguments into a map. The value is
// everything after the first "=" and may be empty. Keys are validated
// by Send with the rest of the map.
func parseAssignments(args []string) (ipc.Properties, error) {
	properties := make(ipc.Properties, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, cli.UsageErrorf("argument %q is not KEY=VALUE", arg)
		}
		properties[key] = value
	}
	return properties, nil
}

// readDocument reads and parses an interchange document.
func (a *App) readDocument(path string, format interchange.Format) (ipc.Properties, error) {
	input, err := a.openInput(path)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	properties, err := interchange.Unmarshal(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return properties, nil
}
