// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pipeliner packages.
//
// [ChannelDirectory] creates a private (0700) temporary directory for
// channel files, matching the permissions a host gives its own
// channel area. [WriteChannelFile] drops raw protocol text into such a
// directory for reader tests.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need names
// that do not collide across parallel subtests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no pipeliner-internal dependencies.
package testutil
