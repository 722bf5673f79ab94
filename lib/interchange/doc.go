// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package interchange converts property maps to and from structured
// document formats, so channel files can be produced from hand-written
// fixtures and inspected with ordinary tooling.
//
// Supported formats:
//
//   - json: a flat JSON object. Export only writes strings; import
//     accepts string, number, boolean and null values.
//   - jsonc: JSON with // and /* */ comments and trailing commas.
//     Import only.
//   - yaml: a flat YAML mapping of scalars. Scalar text is taken
//     verbatim, so "1.10" stays "1.10".
//   - cbor: a CBOR map in Core Deterministic Encoding (see lib/codec).
//   - cbor-diag: CBOR diagnostic notation. Export only; used to show
//     CBOR on a terminal.
//
// Imported maps are validated with [ipc.Properties.Validate]; a document
// that nests objects or arrays is rejected with [ErrNotFlat].
package interchange
