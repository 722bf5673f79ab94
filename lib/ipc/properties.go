// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
)

// keyPattern is the property key grammar: at least two characters,
// starting and ending with a letter, digit or underscore, with dots and
// hyphens allowed in between.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*[A-Za-z0-9_]$`)

// Properties is a property map. Keys are unique; iteration order
// carries no meaning.
type Properties map[string]string

// ValidateKey returns an error wrapping [ErrInvalidKey] when key does
// not match the property key grammar.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}

// Validate checks every key, reporting the first invalid one in sorted
// order so the message is stable. The error is a [*ProtocolError]
// without a location whose Text is the key.
func (p Properties) Validate() error {
	for _, key := range p.Keys() {
		if !keyPattern.MatchString(key) {
			return &ProtocolError{Text: key, Err: ErrInvalidKey}
		}
	}
	return nil
}

// Keys returns the keys in ascending order.
func (p Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Clone returns an independent copy. A nil map clones to an empty one.
func (p Properties) Clone() Properties {
	clone := make(Properties, len(p))
	maps.Copy(clone, p)
	return clone
}

// Merge copies every entry of other into p, overwriting existing keys.
func (p Properties) Merge(other Properties) {
	maps.Copy(p, other)
}
