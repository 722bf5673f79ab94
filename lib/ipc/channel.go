// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// DefaultPrefix starts the name of every channel file created by a
// [Channel] with an empty Prefix.
const DefaultPrefix = "pipeliner-ipc-"

// maxCreateAttempts bounds the retry loop in CreateFile. A collision
// needs the same pid, sequence number and 64 random bits, so reaching
// the bound means something other than bad luck is wrong.
const maxCreateAttempts = 16

// sequence is the process-wide monotonic component of channel file
// names.
var sequence atomic.Uint64

// Channel creates, reads, writes and removes channel files. It holds
// only configuration, so one value can be shared by any number of
// goroutines and invocations.
type Channel struct {
	// Directory receives files from CreateFile. Empty means
	// os.TempDir().
	Directory string

	// Prefix starts every created file name. Empty means
	// DefaultPrefix.
	Prefix string

	// Variant is the wire encoding for Receive and Send.
	Variant Variant

	// Logger receives debug-level lifecycle records. Nil discards.
	Logger *slog.Logger

	// Registry tracks files from CreateFile until Cleanup or Release.
	// Nil means DefaultRegistry.
	Registry *Registry
}

func (c *Channel) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Channel) directory() string {
	if c.Directory == "" {
		return os.TempDir()
	}
	return c.Directory
}

func (c *Channel) prefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

// ResolvePath validates a channel file location handed over by the
// other party: it must be non-empty and name an existing regular file.
// Returns the absolute path.
func (c *Channel) ResolvePath(location string) (string, error) {
	if location == "" {
		return "", &ChannelError{Op: "resolve", Err: ErrEmptyPath}
	}
	path, err := filepath.Abs(location)
	if err != nil {
		return "", &ChannelError{Op: "resolve", Path: location, Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", &ChannelError{Op: "resolve", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", &ChannelError{Op: "resolve", Path: path, Err: ErrNotRegularFile}
	}
	return path, nil
}

// CreateFile allocates an empty channel file readable and writable only
// by the owner. The name combines the process id, a process-wide
// sequence number and 64 random bits; the file is opened with O_EXCL
// so two callers can never be handed the same path. The returned path
// is absolute and tracked by the channel's [Registry].
func (c *Channel) CreateFile() (string, error) {
	return c.createFile(c.prefix())
}

func (c *Channel) createFile(prefix string) (string, error) {
	directory, err := filepath.Abs(c.directory())
	if err != nil {
		return "", &ChannelError{Op: "create", Path: c.directory(), Err: err}
	}
	for range maxCreateAttempts {
		name, err := uniqueName(prefix)
		if err != nil {
			return "", &ChannelError{Op: "create", Path: directory, Err: err}
		}
		path := filepath.Join(directory, name)

		fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0600)
		if errors.Is(err, unix.EEXIST) {
			continue
		}
		if err != nil {
			return "", &ChannelError{Op: "create", Path: path, Err: err}
		}

		// The open mode is filtered through the umask; set it explicitly.
		if err := unix.Fchmod(fd, 0600); err != nil {
			unix.Close(fd)
			os.Remove(path)
			return "", &ChannelError{Op: "create", Path: path, Err: err}
		}
		if err := unix.Close(fd); err != nil {
			os.Remove(path)
			return "", &ChannelError{Op: "create", Path: path, Err: err}
		}

		c.registry().add(path)
		c.logger().Debug("created channel file", "path", path)
		return path, nil
	}
	return "", &ChannelError{
		Op:   "create",
		Path: directory,
		Err:  fmt.Errorf("no unused name after %d attempts", maxCreateAttempts),
	}
}

func uniqueName(prefix string) (string, error) {
	var random [8]byte
	if _, err := rand.Read(random[:]); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return prefix +
		strconv.Itoa(os.Getpid()) + "-" +
		strconv.FormatUint(sequence.Add(1), 10) + "-" +
		hex.EncodeToString(random[:]), nil
}

// Receive reads the property map at path. Open and read failures are
// returned as [*ChannelError]; malformed content as [*ProtocolError]
// or [*DecodeError] naming the path.
func (c *Channel) Receive(path string) (Properties, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ChannelError{Op: "receive", Path: path, Err: err}
	}
	defer file.Close()

	properties, err := Read(file, c.Variant)
	if err != nil {
		var protocolError *ProtocolError
		var decodeError *DecodeError
		if errors.As(err, &protocolError) || errors.As(err, &decodeError) {
			return nil, attachPath(err, path)
		}
		return nil, &ChannelError{Op: "receive", Path: path, Err: err}
	}

	c.logger().Debug("received properties", "path", path, "count", len(properties), "digest", Digest(properties))
	return properties, nil
}

// Send writes properties to path with [WriteFile]. Invalid keys and
// oversized entries are reported as a [*ProtocolError]; everything else
// as a [*ChannelError].
func (c *Channel) Send(path string, properties Properties) error {
	if path == "" {
		return &ChannelError{Op: "send", Err: ErrEmptyPath}
	}
	if err := properties.Validate(); err != nil {
		return err
	}
	if err := WriteFile(path, properties, c.Variant); err != nil {
		var protocolError *ProtocolError
		if errors.As(err, &protocolError) {
			return err
		}
		return &ChannelError{Op: "send", Path: path, Err: err}
	}

	c.logger().Debug("sent properties", "path", path, "count", len(properties), "digest", Digest(properties))
	return nil
}

// Cleanup removes the channel file at path and stops tracking it. A
// file that is already gone is not an error; an empty path is a no-op.
func (c *Channel) Cleanup(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		c.registry().remove(absolute(path))
		c.logger().Debug("removed channel file", "path", path)
		return nil
	}
	c.logger().Warn("removing channel file failed", "path", path, "error", err)
	return &ChannelError{Op: "cleanup", Path: path, Err: err}
}
