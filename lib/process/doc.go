// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for pipeliner
// binaries. It centralizes the raw I/O that happens after the
// structured logger is gone or before it exists: reporting the final
// error to stderr and exiting with the code the error carries.
//
// Errors that implement ExitCode() int (the ipc error types and the CLI
// usage error) choose their own exit status; everything else exits 1.
package process
