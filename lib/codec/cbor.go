// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// ErrDuplicateKey is returned by [Unmarshal] for a map that repeats a
// key.
var ErrDuplicateKey = errors.New("codec: duplicate map key")

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// CBOR allows non-string map keys, so the library default for
		// any-typed targets is map[any]any. Property documents only
		// ever have string keys.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Deterministic encoders never repeat a key; a repeat means
		// the producer and this decoder disagree on which value wins.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. A map with a repeated key fails
// with [ErrDuplicateKey].
func Unmarshal(data []byte, v any) error {
	err := decMode.Unmarshal(data, v)
	var duplicate *cbor.DupMapKeyError
	if errors.As(err, &duplicate) {
		return fmt.Errorf("%w %v", ErrDuplicateKey, duplicate.Key)
	}
	return err
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
