// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"fmt"
	"strings"
	"unicode"
)

// Variant selects one of the mutually incompatible line encodings.
// The zero value is [VariantEscape], the canonical v1 format.
type Variant int

const (
	// VariantEscape writes key=value with backslash, CR and LF escaped.
	// This is protocol version v1.
	VariantEscape Variant = iota

	// VariantBase64 writes key=base64(value). Deprecated.
	VariantBase64

	// VariantBase64Keys writes base64(key) base64(value), separated by
	// whitespace. Deprecated.
	VariantBase64Keys
)

// markerPrefix starts the version marker comment.
const markerPrefix = "# ipc-map "

// Variants lists every supported variant in declaration order.
var Variants = []Variant{VariantEscape, VariantBase64, VariantBase64Keys}

// String returns the variant's name as accepted by [ParseVariant].
func (v Variant) String() string {
	switch v {
	case VariantEscape:
		return "escape"
	case VariantBase64:
		return "base64"
	case VariantBase64Keys:
		return "base64-keys"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Tag returns the token written after "# ipc-map " for this variant.
func (v Variant) Tag() string {
	if v == VariantEscape {
		return "v1"
	}
	return v.String()
}

// Valid reports whether v is one of the declared variants.
func (v Variant) Valid() bool {
	return v >= VariantEscape && v <= VariantBase64Keys
}

// ParseVariant returns the variant named by name. "v1" is accepted as
// an alias for "escape".
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "escape", "v1":
		return VariantEscape, nil
	case "base64":
		return VariantBase64, nil
	case "base64-keys", "base64keys":
		return VariantBase64Keys, nil
	}
	return 0, fmt.Errorf("%w %q (want escape, base64 or base64-keys)", ErrUnknownVariant, name)
}

// writesMarker reports whether the writer emits the version marker.
// The deprecated variants predate the marker and their consumers do not
// skip comment lines reliably.
func (v Variant) writesMarker() bool {
	return v == VariantEscape
}

// separator returns the string written between key and value tokens.
func (v Variant) separator() string {
	if v == VariantBase64Keys {
		return " "
	}
	return "="
}

// split locates the separator in line and returns the raw key and value
// tokens. Keys are trimmed. Escape values are returned verbatim since
// whitespace is significant in them; base64 tokens are trimmed.
func (v Variant) split(line string) (key, value string, ok bool) {
	if v == VariantBase64Keys {
		body := strings.TrimLeftFunc(line, unicode.IsSpace)
		index := strings.IndexFunc(body, unicode.IsSpace)
		if index < 0 {
			return "", "", false
		}
		return body[:index], strings.TrimSpace(body[index:]), true
	}

	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if v == VariantBase64 {
		value = strings.TrimSpace(value)
	}
	return key, value, true
}

// parseMarker returns the tag of a "# ipc-map <tag>" comment. trimmed
// must already have surrounding whitespace removed.
func parseMarker(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, markerPrefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(markerPrefix):]), true
}
