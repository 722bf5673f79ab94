// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"fmt"
	"strconv"
)

// Process exit codes for binaries that wrap the protocol.
const (
	ExitSuccess  = 0
	ExitChannel  = 1
	ExitProtocol = 2
)

var (
	ErrEmptyPath         = errors.New("empty channel path")
	ErrNotRegularFile    = errors.New("channel path is not a regular file")
	ErrMissingVariable   = errors.New("environment variable not set")
	ErrMissingSeparator  = errors.New("missing separator")
	ErrInvalidKey        = errors.New("invalid property key")
	ErrVariantMismatch   = errors.New("version marker does not match variant")
	ErrLineTooLong       = errors.New("line too long")
	ErrTrailingBackslash = errors.New("trailing backslash in escaped token")
	ErrInvalidBase64     = errors.New("invalid base64 token")
	ErrUnknownVariant    = errors.New("ipc: unknown encoding variant")
	ErrInvocationClosed  = errors.New("ipc: invocation already collected or discarded")
)

// ChannelError reports a failure to locate, create, open, write or
// remove a channel file. It is fatal for the invocation; retrying is
// the host's decision, not the protocol's.
type ChannelError struct {
	// Op is the channel operation: "resolve", "create", "receive",
	// "send", "cleanup" or "environment".
	Op string

	// Path is the channel file path, or the environment variable name
	// for Op "environment".
	Path string

	Err error
}

func (e *ChannelError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ipc: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ipc: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// ExitCode returns [ExitChannel].
func (e *ChannelError) ExitCode() int { return ExitChannel }

// ProtocolError reports a line that cannot be parsed as a property
// entry. The read that produced it returns no map at all.
type ProtocolError struct {
	// Path is the file being read, when known.
	Path string

	// Line is the 1-based line number.
	Line int

	// Text is the offending line as read, without its terminator.
	Text string

	Err error
}

func (e *ProtocolError) Error() string {
	if e.Line == 0 && e.Path == "" {
		return fmt.Sprintf("ipc: %v: %q", e.Err, e.Text)
	}
	return fmt.Sprintf("ipc: %s: %v: %q", location(e.Path, e.Line), e.Err, e.Text)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ExitCode returns [ExitProtocol].
func (e *ProtocolError) ExitCode() int { return ExitProtocol }

// DecodeError reports a key or value token that is not valid for the
// active variant.
type DecodeError struct {
	Path string

	// Line is the 1-based line number, or 0 when the token was decoded
	// outside of a file read.
	Line int

	Token string

	Err error
}

func (e *DecodeError) Error() string {
	if e.Line == 0 && e.Path == "" {
		return fmt.Sprintf("ipc: decoding %q: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("ipc: %s: decoding %q: %v", location(e.Path, e.Line), e.Token, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExitCode returns [ExitProtocol].
func (e *DecodeError) ExitCode() int { return ExitProtocol }

func location(path string, line int) string {
	if path == "" {
		path = "<input>"
	}
	return path + ":" + strconv.Itoa(line)
}

// attachPath records path on protocol and decode errors produced by a
// stream read so the message names the file.
func attachPath(err error, path string) error {
	var protocolError *ProtocolError
	if errors.As(err, &protocolError) {
		protocolError.Path = path
		return err
	}
	var decodeError *DecodeError
	if errors.As(err, &decodeError) {
		decodeError.Path = path
		return err
	}
	return err
}
