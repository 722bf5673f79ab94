// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// pipeliner-ipc reads and writes the channel files a pipeliner host
// uses to exchange properties with extension processes.
package main

import (
	"errors"
	"os"

	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/cli"
	"github.com/verifyica/pipeliner-ipc/cmd/pipeliner-ipc/commands"
	"github.com/verifyica/pipeliner-ipc/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired code. Don't print a redundant "error:" line
		// for those.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.Code)
		}
		process.Fatal(err)
	}
}

func run() error {
	return commands.Root(commands.Stdio()).Execute(os.Args[1:])
}
