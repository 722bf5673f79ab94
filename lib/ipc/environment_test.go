// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verifyica/pipeliner-ipc/lib/process"
	"github.com/verifyica/pipeliner-ipc/lib/testutil"
)

func TestLoadEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		vars  map[string]string
		trace bool
	}{
		{"trace true", map[string]string{EnvTrace: "true"}, true},
		{"trace TRUE", map[string]string{EnvTrace: "TRUE"}, false},
		{"trace 1", map[string]string{EnvTrace: "1"}, false},
		{"trace unset", map[string]string{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.vars[EnvInput] = "/in"
			test.vars[EnvOutput] = "/out"
			env := LoadEnvironment(func(name string) string { return test.vars[name] })
			if env.Trace != test.trace {
				t.Errorf("Trace = %v, want %v", env.Trace, test.trace)
			}
			if env.InputPath != "/in" || env.OutputPath != "/out" {
				t.Errorf("paths = %q, %q", env.InputPath, env.OutputPath)
			}
		})
	}
}

func TestReceiveEnvironmentErrors(t *testing.T) {
	t.Parallel()

	channel := &Channel{}

	t.Run("variable missing", func(t *testing.T) {
		t.Parallel()
		_, err := channel.ReceiveEnvironment(Environment{})
		var channelError *ChannelError
		if !errors.As(err, &channelError) {
			t.Fatalf("error = %T (%v), want *ChannelError", err, err)
		}
		if channelError.Path != EnvInput {
			t.Errorf("Path = %q, want %q", channelError.Path, EnvInput)
		}
		if !errors.Is(err, ErrMissingVariable) {
			t.Errorf("error = %v, want ErrMissingVariable", err)
		}
		if process.Code(err) != ExitChannel {
			t.Errorf("ExitCode = %d, want %d", process.Code(err), ExitChannel)
		}
	})

	t.Run("path does not exist", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "gone")
		_, err := channel.ReceiveEnvironment(Environment{InputPath: missing})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
		if process.Code(err) != ExitChannel {
			t.Errorf("ExitCode = %d, want %d", process.Code(err), ExitChannel)
		}
	})
}

func TestSendEnvironmentRequiresExistingOutput(t *testing.T) {
	t.Parallel()

	channel := &Channel{}
	directory := testutil.ChannelDirectory(t)

	err := channel.SendEnvironment(Environment{}, Properties{"key1": "v"})
	if !errors.Is(err, ErrMissingVariable) {
		t.Errorf("unset output error = %v, want ErrMissingVariable", err)
	}

	missing := filepath.Join(directory, "never-created")
	err = channel.SendEnvironment(Environment{OutputPath: missing}, Properties{"key1": "v"})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing output error = %v, want os.ErrNotExist", err)
	}
	if _, statErr := os.Stat(missing); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("SendEnvironment created %s", missing)
	}
}
