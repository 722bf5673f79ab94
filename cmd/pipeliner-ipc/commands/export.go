// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/lib/interchange"
)

func exportCommand(app *App) *cli.Command {
	var (
		options channelOptions
		format  string
	)

	return &cli.Command{
		Name:    "export",
		Summary: "Print a channel file as json, yaml or cbor",
		Description: `Read a channel file and write it to stdout as an interchange
document. Keys are sorted in every format, and CBOR uses Core
Deterministic Encoding, so equal maps export to identical bytes.

Binary CBOR is refused when stdout is a terminal; redirect it or use
--format cbor-diag for diagnostic notation.`,
		Usage: "pipeliner-ipc export [flags] PATH",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&format, "format", "json", "json, yaml, cbor or cbor-diag")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Turn the extension's output into YAML",
				Command:     `pipeliner-ipc export --format yaml "$PIPELINER_IPC_OUT"`,
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.UsageErrorf("export requires exactly one PATH")
			}
			outputFormat, err := interchange.ParseFormat(format)
			if err != nil {
				return cli.UsageErrorf("--format: %v", err)
			}
			if !outputFormat.Exportable() {
				return cli.UsageErrorf("--format must be one of %v, got %q", interchange.ExportFormats, format)
			}
			if outputFormat.Binary() && cli.IsTerminal(app.Stdout) {
				return cli.UsageErrorf("refusing to write binary %s to a terminal; redirect stdout or use --format %s",
					outputFormat, interchange.FormatCBORDiag)
			}
			s, err := app.setup("export", &options)
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
			data, err := interchange.Marshal(properties, outputFormat)
			if err != nil {
				return cli.UsageErrorf("%v", err)
			}
			_, err = app.Stdout.Write(data)
			return err
		},
	}
}

func importCommand(app *App) *cli.Command {
	var (
		options channelOptions
		format  string
	)

	return &cli.Command{
		Name:    "import",
		Summary: "Write a channel file from a json, jsonc, yaml or cbor document",
		Description: `Parse SRC ("-" for stdin) as an interchange document and write
it to DEST as a channel file in the configured variant. DEST need not
exist and is replaced atomically.

The document must be a single flat mapping. Numbers, booleans and
nulls become their text ("1.10", "true", ""); nested objects and
arrays are rejected. The format comes from --format or the SRC
extension.`,
		Usage: "pipeliner-ipc import [flags] SRC DEST",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&format, "format", "", "json, jsonc, yaml or cbor (default from SRC extension)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Build a test input from a commented fixture",
				Command:     "pipeliner-ipc import testdata/build-inputs.jsonc /tmp/build.in",
			},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.UsageErrorf("import requires SRC and DEST")
			}
			inputFormat, err := documentFormat(format, args[0], "")
			if err != nil {
				return err
			}
			if inputFormat == "" {
				return cli.UsageErrorf("cannot infer the format of %q; pass --format", args[0])
			}
			s, err := app.setup("import", &options)
			if err != nil {
				return err
			}

			properties, err := app.readDocument(args[0], inputFormat)
			if err != nil {
				return err
			}
			if err := s.channel.Send(args[1], properties); err != nil {
				return err
			}
			s.logger.Debug("imported document", "source", args[0], "destination", args[1], "entries", len(properties))
			return nil
		},
	}
}
