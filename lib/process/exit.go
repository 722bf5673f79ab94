// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Fatal writes "error: err" to stderr and exits with [Code] of err.
// Use it in main() for errors from run() where the structured logger
// may not be initialized.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes "error: err" to w and returns the exit code for err.
// A nil err writes nothing and returns 0. An err whose ExitCode is 0
// (help was printed, nothing failed) is not written.
func Report(w io.Writer, err error) int {
	code := Code(err)
	if err != nil && code != 0 {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return code
}

// Code returns the exit status for err: 0 for nil, the ExitCode of the
// first error in the chain that has one, and 1 otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
