// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// digestDomainKey keys the BLAKE3 hasher so property digests can never
// collide with digests of the same bytes computed for another purpose.
// ASCII domain name, zero-padded to 32 bytes.
var digestDomainKey = [32]byte{
	'p', 'i', 'p', 'e', 'l', 'i', 'n', 'e', 'r', '.', 'i', 'p', 'c', '.',
	'p', 'r', 'o', 'p', 'e', 'r', 't', 'i', 'e', 's', 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest returns "blake3:<hex>" over the map's entries in key order.
// Each key and value is length-prefixed so entry boundaries cannot be
// forged by content. Equal maps always produce equal digests, however
// they were built.
func Digest(properties Properties) string {
	hasher, err := blake3.NewKeyed(digestDomainKey[:])
	if err != nil {
		panic("ipc: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var length [8]byte
	write := func(s string) {
		binary.BigEndian.PutUint64(length[:], uint64(len(s)))
		hasher.Write(length[:])
		hasher.Write([]byte(s))
	}
	for _, key := range properties.Keys() {
		write(key)
		write(properties[key])
	}
	return "blake3:" + hex.EncodeToString(hasher.Sum(nil))
}
