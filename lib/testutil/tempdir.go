// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ChannelDirectory returns a temporary directory with mode 0700. It is
// removed when the test completes.
func ChannelDirectory(t *testing.T) string {
	t.Helper()
	directory := filepath.Join(t.TempDir(), "channels")
	if err := os.Mkdir(directory, 0700); err != nil {
		t.Fatalf("creating channel directory: %v", err)
	}
	// Mkdir is subject to the umask; make the mode exact.
	if err := os.Chmod(directory, 0700); err != nil {
		t.Fatalf("restricting channel directory: %v", err)
	}
	return directory
}

// WriteChannelFile writes content to name inside directory with mode
// 0600 and returns the full path.
func WriteChannelFile(t *testing.T, directory, name, content string) string {
	t.Helper()
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing channel file %s: %v", path, err)
	}
	return path
}
