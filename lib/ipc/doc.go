// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipc implements the file-based property exchange between a
// pipeline host and the extension processes it runs as pipeline steps.
//
// The host writes an input property map to a channel file, starts the
// extension with the file's path in PIPELINER_IPC_IN, and after the
// process exits reads the extension's results from the file named by
// PIPELINER_IPC_OUT. Process exit is the only ordering edge between the
// two parties: each channel file has exactly one writer and one reader,
// so no file locking is involved.
//
// The canonical wire format (v1) is one property per line:
//
//	# ipc-map v1
//	<key>=<escaped-value>
//
// where backslash, CR and LF in the value are written as \\, \r and \n.
// Blank lines and lines starting with '#' are ignored on read, except
// that a "# ipc-map <tag>" marker must name the active [Variant].
//
// Two deprecated encodings ([VariantBase64] and [VariantBase64Keys])
// are supported for files produced by older extensions. The variant is
// always chosen explicitly by the caller; it is never detected from
// file content.
//
// Key exports:
//
//   - [Read] and [Write] -- pure line-protocol functions over io streams
//   - [WriteFile] -- atomic write (temporary file, fsync, rename)
//   - [Channel] -- stateless path resolution, creation, Receive/Send
//   - [Invocation] -- host-side input/output file pair for one run
//   - [Environment] -- extension-side view of the PIPELINER_* variables
//
// Failures surface as [*ChannelError], [*ProtocolError] or
// [*DecodeError]. Each carries an ExitCode method so binaries can map
// them onto the documented process exit codes.
//
// This package depends on no other pipeliner packages.
package ipc
