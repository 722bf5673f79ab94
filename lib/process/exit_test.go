// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

type codedError struct{ code int }

func (e codedError) Error() string { return fmt.Sprintf("coded %d", e.code) }
func (e codedError) ExitCode() int { return e.code }

func TestReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   int
		output string
	}{
		{"nil", nil, 0, ""},
		{"plain", errors.New("boom"), 1, "error: boom\n"},
		{"protocol", &ipc.ProtocolError{Line: 4, Text: "x", Err: ipc.ErrMissingSeparator}, 2,
			"error: ipc: <input>:4: missing separator: \"x\"\n"},
		{"wrapped", fmt.Errorf("receive: %w", codedError{3}), 3, "error: receive: coded 3\n"},
		{"zero code", codedError{0}, 0, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			var buffer bytes.Buffer
			if code := Report(&buffer, test.err); code != test.code {
				t.Errorf("Report code = %d, want %d", code, test.code)
			}
			if buffer.String() != test.output {
				t.Errorf("Report output = %q, want %q", buffer.String(), test.output)
			}
		})
	}
}
