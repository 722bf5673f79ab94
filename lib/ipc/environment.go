// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

// Environment variables shared by the host and its extensions.
const (
	EnvInput  = "PIPELINER_IPC_IN"
	EnvOutput = "PIPELINER_IPC_OUT"
	EnvTrace  = "PIPELINER_TRACE"
)

// Environment is the extension's view of the variables the host set
// when it started the process.
type Environment struct {
	InputPath  string
	OutputPath string

	// Trace is true only when PIPELINER_TRACE is exactly "true".
	Trace bool
}

// LoadEnvironment reads the PIPELINER_* variables through getenv,
// which is os.Getenv in production and a map lookup in tests.
func LoadEnvironment(getenv func(string) string) Environment {
	return Environment{
		InputPath:  getenv(EnvInput),
		OutputPath: getenv(EnvOutput),
		Trace:      getenv(EnvTrace) == "true",
	}
}

// ReceiveEnvironment resolves env.InputPath and reads it.
func (c *Channel) ReceiveEnvironment(env Environment) (Properties, error) {
	if env.InputPath == "" {
		return nil, &ChannelError{Op: "environment", Path: EnvInput, Err: ErrMissingVariable}
	}
	path, err := c.ResolvePath(env.InputPath)
	if err != nil {
		return nil, err
	}
	return c.Receive(path)
}

// SendEnvironment resolves env.OutputPath, which the host must have
// created, and writes properties to it.
func (c *Channel) SendEnvironment(env Environment, properties Properties) error {
	if env.OutputPath == "" {
		return &ChannelError{Op: "environment", Path: EnvOutput, Err: ErrMissingVariable}
	}
	path, err := c.ResolvePath(env.OutputPath)
	if err != nil {
		return err
	}
	return c.Send(path, properties)
}
