// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// escapeReplacer substitutes in a single pass, so the backslashes it
// introduces are never escaped a second time.
var escapeReplacer = strings.NewReplacer(`\`, `\\`, "\r", `\r`, "\n", `\n`)

// EncodeValue returns the line-safe token for value.
func (v Variant) EncodeValue(value string) string {
	switch v {
	case VariantBase64, VariantBase64Keys:
		return base64.StdEncoding.EncodeToString([]byte(value))
	default:
		return escapeReplacer.Replace(value)
	}
}

// DecodeValue is the inverse of [Variant.EncodeValue]. It fails with a
// [*DecodeError] when a base64 token has bad padding or alphabet, or
// when an escaped token ends in a lone backslash.
func (v Variant) DecodeValue(token string) (string, error) {
	switch v {
	case VariantBase64, VariantBase64Keys:
		return decodeBase64(token)
	default:
		return unescape(token)
	}
}

// EncodeKey returns the key token. Only [VariantBase64Keys] encodes
// keys; the other variants write them as plain text.
func (v Variant) EncodeKey(key string) string {
	if v == VariantBase64Keys {
		return base64.StdEncoding.EncodeToString([]byte(key))
	}
	return key
}

// DecodeKey is the inverse of [Variant.EncodeKey].
func (v Variant) DecodeKey(token string) (string, error) {
	if v == VariantBase64Keys {
		return decodeBase64(token)
	}
	return token, nil
}

func decodeBase64(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.Strict().DecodeString(token)
	if err != nil {
		return "", &DecodeError{Token: token, Err: fmt.Errorf("%w: %v", ErrInvalidBase64, err)}
	}
	return string(decoded), nil
}

// unescape scans left to right so that "\\n" decodes to a backslash
// followed by 'n', never to a newline. Sequences other than \\, \r and
// \n are kept as written.
func unescape(token string) (string, error) {
	index := strings.IndexByte(token, '\\')
	if index < 0 {
		return token, nil
	}

	var builder strings.Builder
	builder.Grow(len(token))
	builder.WriteString(token[:index])

	for i := index; i < len(token); i++ {
		c := token[i]
		if c != '\\' {
			builder.WriteByte(c)
			continue
		}
		if i+1 == len(token) {
			return "", &DecodeError{Token: token, Err: ErrTrailingBackslash}
		}
		i++
		switch token[i] {
		case '\\':
			builder.WriteByte('\\')
		case 'n':
			builder.WriteByte('\n')
		case 'r':
			builder.WriteByte('\r')
		default:
			builder.WriteByte('\\')
			builder.WriteByte(token[i])
		}
	}
	return builder.String(), nil
}
