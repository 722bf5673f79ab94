// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/verifyica/pipeliner-ipc/lib/process"
	"github.com/verifyica/pipeliner-ipc/lib/testutil"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()

	directory := testutil.ChannelDirectory(t)
	existing := testutil.WriteChannelFile(t, directory, "in", "")
	channel := &Channel{}

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()
		path, err := channel.ResolvePath(existing)
		if err != nil {
			t.Fatalf("ResolvePath: %v", err)
		}
		if path != existing {
			t.Errorf("path = %q, want %q", path, existing)
		}
	})

	failures := []struct {
		name     string
		location string
		want     error
	}{
		{"empty", "", ErrEmptyPath},
		{"missing", filepath.Join(directory, "missing"), os.ErrNotExist},
		{"directory", directory, ErrNotRegularFile},
	}
	for _, test := range failures {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := channel.ResolvePath(test.location)
			var channelError *ChannelError
			if !errors.As(err, &channelError) {
				t.Fatalf("error = %T (%v), want *ChannelError", err, err)
			}
			if !errors.Is(err, test.want) {
				t.Errorf("error = %v, want %v", err, test.want)
			}
			if process.Code(err) != ExitChannel {
				t.Errorf("ExitCode = %d, want %d", process.Code(err), ExitChannel)
			}
		})
	}
}

func TestCreateFile(t *testing.T) {
	t.Parallel()

	directory := testutil.ChannelDirectory(t)
	channel := &Channel{Directory: directory, Prefix: "step-"}

	path, err := channel.CreateFile()
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if filepath.Dir(path) != directory {
		t.Errorf("created in %s, want %s", filepath.Dir(path), directory)
	}
	if !strings.HasPrefix(filepath.Base(path), "step-") {
		t.Errorf("name %q lacks prefix", filepath.Base(path))
	}

	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if !info.Mode().IsRegular() {
		t.Errorf("mode = %v, want regular file", info.Mode())
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want empty file", info.Size())
	}
}

func TestCreateFileRelativeDirectory(t *testing.T) {
	directory := testutil.ChannelDirectory(t)
	t.Chdir(directory)

	channel := &Channel{Directory: ".", Registry: &Registry{}}
	path, err := channel.CreateFile()
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("CreateFile = %q, want an absolute path", path)
	}
	if filepath.Dir(path) != directory {
		t.Errorf("created in %s, want %s", filepath.Dir(path), directory)
	}
}

func TestCreateFileDefaultPrefix(t *testing.T) {
	t.Parallel()

	channel := &Channel{Directory: testutil.ChannelDirectory(t)}
	path, err := channel.CreateFile()
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), DefaultPrefix) {
		t.Errorf("name %q lacks default prefix %q", filepath.Base(path), DefaultPrefix)
	}
}

func TestCreateFileConcurrentUniqueness(t *testing.T) {
	t.Parallel()

	const count = 1000
	channel := &Channel{Directory: testutil.ChannelDirectory(t)}

	paths := make(chan string, count)
	failures := make(chan error, count)
	done := make(chan struct{})

	var group sync.WaitGroup
	for range count {
		group.Add(1)
		go func() {
			defer group.Done()
			path, err := channel.CreateFile()
			if err != nil {
				failures <- err
				return
			}
			paths <- path
		}()
	}
	go func() {
		group.Wait()
		close(done)
	}()
	testutil.RequireClosed(t, done, 30*time.Second, "waiting for %d CreateFile calls", count)
	close(paths)
	close(failures)

	for err := range failures {
		t.Errorf("CreateFile: %v", err)
	}
	seen := make(map[string]bool, count)
	for path := range paths {
		if seen[path] {
			t.Errorf("duplicate path %s", path)
		}
		seen[path] = true
	}
	if len(seen) != count {
		t.Errorf("got %d distinct paths, want %d", len(seen), count)
	}
}

func TestCreateFileMissingDirectory(t *testing.T) {
	t.Parallel()

	channel := &Channel{Directory: filepath.Join(t.TempDir(), "missing")}
	_, err := channel.CreateFile()
	var channelError *ChannelError
	if !errors.As(err, &channelError) {
		t.Fatalf("error = %T (%v), want *ChannelError", err, err)
	}
	if channelError.Op != "create" {
		t.Errorf("Op = %q, want create", channelError.Op)
	}
}

func TestReceive(t *testing.T) {
	t.Parallel()

	directory := testutil.ChannelDirectory(t)
	path := testutil.WriteChannelFile(t, directory, "in", "key1=value1\n# note\nkey2=\n")

	got, err := (&Channel{}).Receive(path)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	want := Properties{"key1": "value1", "key2": ""}
	if !maps.Equal(got, want) {
		t.Errorf("Receive = %v, want %v", got, want)
	}
}

func TestReceiveErrors(t *testing.T) {
	t.Parallel()

	directory := testutil.ChannelDirectory(t)
	channel := &Channel{}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := channel.Receive(filepath.Join(directory, "missing"))
		var channelError *ChannelError
		if !errors.As(err, &channelError) {
			t.Fatalf("error = %T (%v), want *ChannelError", err, err)
		}
		if process.Code(err) != ExitChannel {
			t.Errorf("ExitCode = %d, want %d", process.Code(err), ExitChannel)
		}
	})

	t.Run("malformed line names path", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteChannelFile(t, directory, "malformed", "key1=v\nno-separator\n")
		_, err := channel.Receive(path)
		var protocolError *ProtocolError
		if !errors.As(err, &protocolError) {
			t.Fatalf("error = %T (%v), want *ProtocolError", err, err)
		}
		if protocolError.Path != path {
			t.Errorf("Path = %q, want %q", protocolError.Path, path)
		}
		if !strings.Contains(err.Error(), path+":2") {
			t.Errorf("message %q does not name %s:2", err.Error(), path)
		}
		if process.Code(err) != ExitProtocol {
			t.Errorf("ExitCode = %d, want %d", process.Code(err), ExitProtocol)
		}
	})

	t.Run("bad escape names path", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteChannelFile(t, directory, "bad-escape", "key1=v\\\n")
		_, err := channel.Receive(path)
		var decodeError *DecodeError
		if !errors.As(err, &decodeError) {
			t.Fatalf("error = %T (%v), want *DecodeError", err, err)
		}
		if decodeError.Path != path || decodeError.Line != 1 {
			t.Errorf("location = %s:%d, want %s:1", decodeError.Path, decodeError.Line, path)
		}
		if process.Code(err) != ExitProtocol {
			t.Errorf("ExitCode = %d, want %d", process.Code(err), ExitProtocol)
		}
	})
}

func TestSendReceive(t *testing.T) {
	t.Parallel()

	for _, variant := range Variants {
		t.Run(variant.String(), func(t *testing.T) {
			t.Parallel()
			channel := &Channel{Directory: testutil.ChannelDirectory(t), Variant: variant}
			path, err := channel.CreateFile()
			if err != nil {
				t.Fatalf("CreateFile: %v", err)
			}

			want := Properties{
				"extension.property.1": "multi\nline\r\nvalue",
				"extension.property.2": `C:\path\to\thing`,
				"empty_value":          "",
			}
			if err := channel.Send(path, want); err != nil {
				t.Fatalf("Send: %v", err)
			}
			got, err := channel.Receive(path)
			if err != nil {
				t.Fatalf("Receive: %v", err)
			}
			if !maps.Equal(got, want) {
				t.Errorf("Receive = %v, want %v", got, want)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Stat: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("permissions after Send = %o, want 600", perm)
			}
		})
	}
}

func TestSendInvalidKeyLeavesFile(t *testing.T) {
	t.Parallel()

	directory := testutil.ChannelDirectory(t)
	path := testutil.WriteChannelFile(t, directory, "out", "")

	err := (&Channel{}).Send(path, Properties{"-bad": "v"})
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("error = %v, want ErrInvalidKey", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("destination removed after validation failure: %v", err)
	}
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	channel := &Channel{Directory: testutil.ChannelDirectory(t)}
	path, err := channel.CreateFile()
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	if err := channel.Cleanup(path); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still present after Cleanup: %v", err)
	}
	if err := channel.Cleanup(path); err != nil {
		t.Errorf("second Cleanup: %v", err)
	}
	if err := channel.Cleanup(""); err != nil {
		t.Errorf("Cleanup(\"\"): %v", err)
	}
}
