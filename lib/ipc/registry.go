// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
)

// EnvDisableShutdownHook keeps channel files on exit when set to
// "true" or "1", so they can be inspected after a failed run.
const EnvDisableShutdownHook = "PIPELINER_DISABLE_SHUTDOWN_HOOK"

// Registry tracks the channel files this process has created and not
// yet removed. The zero value is ready to use.
type Registry struct {
	mutex sync.Mutex
	paths map[string]struct{}
}

// DefaultRegistry is used by every [Channel] with a nil Registry.
var DefaultRegistry = &Registry{}

func (r *Registry) add(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.paths == nil {
		r.paths = make(map[string]struct{})
	}
	r.paths[path] = struct{}{}
}

func (r *Registry) remove(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.paths, path)
}

// Paths returns the tracked paths in sorted order.
func (r *Registry) Paths() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	paths := make([]string, 0, len(r.paths))
	for path := range r.paths {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// RemoveAll removes every tracked file. Files that are already gone
// are not errors. A file that cannot be removed stays tracked.
func (r *Registry) RemoveAll() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var errs []error
	for path := range r.paths {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, &ChannelError{Op: "cleanup", Path: path, Err: err})
			continue
		}
		delete(r.paths, path)
	}
	return errors.Join(errs...)
}

// ShutdownHookDisabled reports whether [EnvDisableShutdownHook], read
// through getenv, is "true" or "1" (case-insensitive).
func ShutdownHookDisabled(getenv func(string) string) bool {
	value := strings.TrimSpace(getenv(EnvDisableShutdownHook))
	return strings.EqualFold(value, "true") || value == "1"
}

func (c *Channel) registry() *Registry {
	if c.Registry == nil {
		return DefaultRegistry
	}
	return c.Registry
}

// Release stops tracking path without removing it. Use it when the
// file is handed to a party that outlives this process.
func (c *Channel) Release(path string) {
	c.registry().remove(absolute(path))
}

// CleanupOnExit removes every file still tracked by the channel's
// registry, unless [ShutdownHookDisabled] says to keep them.
func (c *Channel) CleanupOnExit(getenv func(string) string) error {
	registry := c.registry()
	if ShutdownHookDisabled(getenv) {
		if paths := registry.Paths(); len(paths) > 0 {
			c.logger().Info("keeping channel files", "reason", EnvDisableShutdownHook, "paths", paths)
		}
		return nil
	}
	c.logger().Debug("removing channel files on exit", "count", len(registry.Paths()))
	return registry.RemoveAll()
}

// NotifyContext returns a context that is canceled on SIGINT or
// SIGTERM, and runs [Channel.CleanupOnExit] once the context is done.
// The returned stop function restores default signal handling and
// waits for the cleanup to finish; callers defer it.
//
// While the context is live the signals no longer terminate the
// process: the host must return once ctx.Done() is closed.
func (c *Channel) NotifyContext(parent context.Context, getenv func(string) string) (context.Context, context.CancelFunc) {
	ctx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if err := c.CleanupOnExit(getenv); err != nil {
				c.logger().Warn("removing channel files on exit failed", "error", err)
			}
		})
	}

	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return ctx, func() {
		stopSignals()
		cleanup()
	}
}

// absolute returns path made absolute, or path unchanged if the
// working directory cannot be determined.
func absolute(path string) string {
	if resolved, err := filepath.Abs(path); err == nil {
		return resolved
	}
	return path
}
