// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"sync"
)

// Invocation is the host's pair of channel files for one extension run.
// The host calls Prepare before starting the process, passes Environ to
// it, and after the process has exited calls exactly one of Collect
// (normal exit) or Discard (timeout, kill, non-zero exit). Both remove
// the files.
//
// Collect must not be called while the extension may still be running:
// process exit is what guarantees the output file is complete.
type Invocation struct {
	channel *Channel

	InputPath  string
	OutputPath string

	mutex  sync.Mutex
	closed bool
}

// Prepare creates the input and output channel files and writes input
// to the input file. The file names carry the channel prefix followed
// by "in-" or "out-". On failure no files are left behind.
func (c *Channel) Prepare(input Properties) (*Invocation, error) {
	inputPath, err := c.createFile(c.prefix() + "in-")
	if err != nil {
		return nil, err
	}
	outputPath, err := c.createFile(c.prefix() + "out-")
	if err != nil {
		c.Cleanup(inputPath)
		return nil, err
	}
	if err := c.Send(inputPath, input); err != nil {
		c.Cleanup(inputPath)
		c.Cleanup(outputPath)
		return nil, err
	}

	c.logger().Debug("prepared invocation", "input", inputPath, "output", outputPath)
	return &Invocation{channel: c, InputPath: inputPath, OutputPath: outputPath}, nil
}

// Environ returns the environment entries that hand the channel files
// to the extension, in "NAME=value" form for exec.Cmd.Env.
func (i *Invocation) Environ() []string {
	return []string{
		EnvInput + "=" + i.InputPath,
		EnvOutput + "=" + i.OutputPath,
	}
}

// Collect reads the extension's output and removes both files. The
// files are removed even when the read fails. A second call returns
// [ErrInvocationClosed].
func (i *Invocation) Collect() (Properties, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.closed {
		return nil, ErrInvocationClosed
	}
	i.closed = true

	properties, readErr := i.channel.Receive(i.OutputPath)
	cleanupErr := i.removeFiles()
	if readErr != nil {
		return nil, readErr
	}
	if cleanupErr != nil {
		return nil, cleanupErr
	}
	return properties, nil
}

// Discard removes both files without reading them. It is safe to call
// after Collect or more than once.
func (i *Invocation) Discard() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true

	i.channel.logger().Debug("discarding invocation", "input", i.InputPath, "output", i.OutputPath)
	return i.removeFiles()
}

func (i *Invocation) removeFiles() error {
	return errors.Join(
		i.channel.Cleanup(i.InputPath),
		i.channel.Cleanup(i.OutputPath),
	)
}
