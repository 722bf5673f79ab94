// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for pipeliner-ipc.
//
// Configuration comes from a single file named by either the
// PIPELINER_IPC_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no ~/.config discovery and no
// automatic file search. When neither is given, [Default] applies.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${TMPDIR} and ${VAR:-default} patterns are expanded. No
// other environment variables override config values. The PIPELINER_IPC_IN
// and PIPELINER_IPC_OUT channel paths are per-invocation and are never
// read from the file.
//
// Key exports:
//
//   - [Config] -- master struct with Channel and Log sections
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
