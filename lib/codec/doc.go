// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// property maps exported from channel files.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same property map always produces identical bytes, so CBOR exports
// can be compared and hashed directly.
//
//	data, err := codec.Marshal(properties)
//	err = codec.Unmarshal(data, &document)
//
// Decoding into an any-typed target yields map[string]any for CBOR
// maps, matching what encoding/json and yaml.v3 produce.
package codec
