// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	initialLineBuffer = 16 * 1024
	maxLineLength     = 64 * 1024 * 1024
)

// Read parses a property file from r using variant. Blank lines and
// comments are skipped; every other line must be a key/value entry.
// Any malformed line fails the whole read with a [*ProtocolError] or
// [*DecodeError]; no partial map is returned. Later entries overwrite
// earlier ones with the same key.
//
// Errors from r itself are returned wrapped but untyped.
func Read(r io.Reader, variant Variant) (Properties, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(variant))
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)

	properties := make(Properties)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		// ScanLines has already removed the "\n" and one "\r" before it.
		if err := parseLine(properties, scanner.Text(), lineNumber, variant); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ProtocolError{Line: lineNumber + 1, Err: ErrLineTooLong}
		}
		return nil, fmt.Errorf("reading line %d: %w", lineNumber+1, err)
	}
	return properties, nil
}

func parseLine(properties Properties, line string, lineNumber int, variant Variant) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if trimmed[0] == '#' {
		if tag, ok := parseMarker(trimmed); ok && tag != variant.Tag() {
			return &ProtocolError{
				Line: lineNumber,
				Text: line,
				Err:  fmt.Errorf("%w: file is %q, reading as %q", ErrVariantMismatch, tag, variant.Tag()),
			}
		}
		return nil
	}

	keyToken, valueToken, ok := variant.split(line)
	if !ok {
		return &ProtocolError{Line: lineNumber, Text: line, Err: ErrMissingSeparator}
	}

	key, err := variant.DecodeKey(keyToken)
	if err != nil {
		return atLine(err, lineNumber)
	}
	if err := ValidateKey(key); err != nil {
		return &ProtocolError{Line: lineNumber, Text: line, Err: err}
	}

	value, err := variant.DecodeValue(valueToken)
	if err != nil {
		return atLine(err, lineNumber)
	}

	properties[key] = value
	return nil
}

func atLine(err error, lineNumber int) error {
	var decodeError *DecodeError
	if errors.As(err, &decodeError) {
		decodeError.Line = lineNumber
	}
	return err
}
