// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for pipeliner-ipc: a tree of
// [Command] values with pflag flag sets, generated help, and
// edit-distance suggestions for mistyped commands and flags.
//
// Commands return errors; the binary's main function turns them into
// exit codes. An [ExitError] exits with its code without printing, for
// commands that have already written their own output.
package cli
