// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message. The command is expected to have already written its
// own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// UsageError reports a command line the framework or a command could
// not make sense of: unknown commands and flags, missing arguments.
// It exits 1, the same status as a channel failure, because the
// extension contract has no separate code for misuse.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ExitCode returns 1.
func (e *UsageError) ExitCode() int { return 1 }

// UsageErrorf formats a [UsageError].
func UsageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
