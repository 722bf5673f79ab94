// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package interchange

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Format names a document format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatJSONC    Format = "jsonc"
	FormatYAML     Format = "yaml"
	FormatCBOR     Format = "cbor"
	FormatCBORDiag Format = "cbor-diag"
)

var (
	// ErrUnsupportedFormat is returned for a format name that is unknown
	// or not valid in the requested direction.
	ErrUnsupportedFormat = errors.New("interchange: unsupported format")

	// ErrNotFlat is returned when an imported document is not a single
	// mapping of keys to scalar values.
	ErrNotFlat = errors.New("interchange: document is not a flat mapping of scalars")

	// ErrDuplicateKey is returned when an imported document names the
	// same key twice. Every import format rejects duplicates.
	ErrDuplicateKey = errors.New("interchange: duplicate key")
)

// ExportFormats lists the formats [Marshal] accepts.
var ExportFormats = []Format{FormatJSON, FormatYAML, FormatCBOR, FormatCBORDiag}

// ImportFormats lists the formats [Unmarshal] accepts.
var ImportFormats = []Format{FormatJSON, FormatJSONC, FormatYAML, FormatCBOR}

// ParseFormat returns the format named by name. "yml" is accepted as an
// alias for yaml.
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(name))); format {
	case FormatJSON, FormatJSONC, FormatYAML, FormatCBOR, FormatCBORDiag:
		return format, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, name)
}

// Exportable reports whether [Marshal] accepts f.
func (f Format) Exportable() bool {
	return slices.Contains(ExportFormats, f)
}

// Importable reports whether [Unmarshal] accepts f.
func (f Format) Importable() bool {
	return slices.Contains(ImportFormats, f)
}

// Binary reports whether the format produces bytes that are not meant
// for a terminal.
func (f Format) Binary() bool {
	return f == FormatCBOR
}
