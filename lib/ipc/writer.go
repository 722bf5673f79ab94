// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write serializes properties to w using variant: the version marker
// (escape variant only), then one line per entry in key order. Keys are
// validated before anything is written. An entry whose line would not
// fit the reader's line limit fails with a [*ProtocolError] wrapping
// [ErrLineTooLong]; entries before it may already have been written.
func Write(w io.Writer, properties Properties, variant Variant) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(variant))
	}
	if err := properties.Validate(); err != nil {
		return err
	}

	buffered := bufio.NewWriterSize(w, initialLineBuffer)
	if variant.writesMarker() {
		if _, err := buffered.WriteString(markerPrefix + variant.Tag() + "\n"); err != nil {
			return err
		}
	}

	separator := variant.separator()
	for _, key := range properties.Keys() {
		line := variant.EncodeKey(key) + separator + variant.EncodeValue(properties[key]) + "\n"
		if len(line) > maxLineLength {
			return &ProtocolError{
				Text: key,
				Err:  fmt.Errorf("%w: entry is %d bytes, limit %d", ErrLineTooLong, len(line), maxLineLength),
			}
		}
		if _, err := buffered.WriteString(line); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

// WriteFile writes properties to path in one pass. The content goes to
// a temporary file (mode 0600) in the same directory, which is fsynced,
// closed and renamed over path, so a reader sees either nothing or the
// complete file.
//
// If writing fails after the destination may have been replaced or
// truncated by an earlier party, both the temporary file and path are
// removed before the error is returned. Key validation failures leave
// path untouched.
func WriteFile(path string, properties Properties, variant Variant) error {
	return writeFile(path, properties, variant, os.Rename)
}

func writeFile(path string, properties Properties, variant Variant, rename func(string, string) error) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(variant))
	}
	if err := properties.Validate(); err != nil {
		return err
	}

	removeDestination := func(err error) error {
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			return errors.Join(err, fmt.Errorf("removing %s after failed write: %w", path, removeErr))
		}
		return err
	}

	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return removeDestination(fmt.Errorf("creating temporary file in %s: %w", directory, err))
	}
	temporaryPath := file.Name()

	fail := func(err error) error {
		file.Close()
		os.Remove(temporaryPath)
		return removeDestination(err)
	}

	if err := file.Chmod(0600); err != nil {
		return fail(fmt.Errorf("restricting %s: %w", temporaryPath, err))
	}
	if err := Write(file, properties, variant); err != nil {
		return fail(fmt.Errorf("writing %s: %w", path, err))
	}
	if err := file.Sync(); err != nil {
		return fail(fmt.Errorf("syncing %s: %w", temporaryPath, err))
	}
	if err := file.Close(); err != nil {
		return fail(fmt.Errorf("closing %s: %w", temporaryPath, err))
	}
	if err := rename(temporaryPath, path); err != nil {
		return fail(fmt.Errorf("renaming into place: %w", err))
	}

	// Best-effort: make the rename durable before the process exits and
	// the host goes looking for the file.
	if parent, err := os.Open(directory); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
