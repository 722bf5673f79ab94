// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/verifyica/pipeliner-ipc/lib/process"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"channel", &ChannelError{Op: "resolve", Err: ErrEmptyPath}, ExitChannel},
		{"protocol", &ProtocolError{Line: 1, Err: ErrMissingSeparator}, ExitProtocol},
		{"decode", &DecodeError{Token: `x\`, Err: ErrTrailingBackslash}, ExitProtocol},
		{"wrapped decode", fmt.Errorf("receiving: %w", &DecodeError{Err: ErrInvalidBase64}), ExitProtocol},
		{"untyped", errors.New("usage"), ExitChannel},
	}
	for _, test := range tests {
		if got := process.Code(test.err); got != test.want {
			t.Errorf("%s: exit code = %d, want %d", test.name, got, test.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{
			&ChannelError{Op: "environment", Path: EnvInput, Err: ErrMissingVariable},
			"ipc: environment PIPELINER_IPC_IN: environment variable not set",
		},
		{
			&ProtocolError{Path: "/tmp/in", Line: 3, Text: "bare", Err: ErrMissingSeparator},
			`ipc: /tmp/in:3: missing separator: "bare"`,
		},
		{
			&ProtocolError{Text: "bad key", Err: ErrInvalidKey},
			`ipc: invalid property key: "bad key"`,
		},
		{
			&DecodeError{Line: 2, Token: `v\`, Err: ErrTrailingBackslash},
			`ipc: <input>:2: decoding "v\\": trailing backslash in escaped token`,
		},
		{
			&DecodeError{Token: "%%", Err: ErrInvalidBase64},
			`ipc: decoding "%%": invalid base64 token`,
		},
	}
	for _, test := range tests {
		if got := test.err.Error(); got != test.want {
			t.Errorf("Error() = %q, want %q", got, test.want)
		}
	}
}
