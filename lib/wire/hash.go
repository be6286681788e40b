// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashSize is the size of a payload hash in bytes.
const HashSize = 32

// Hash is a 32-byte keyed BLAKE3 digest of an uncompressed CBOR
// payload. Because record encoding is deterministic, equal trees have
// equal hashes.
type Hash [HashSize]byte

// payloadDomainKey is the BLAKE3 key for payload hashing. Domain
// separation keeps payload hashes from colliding with any other
// BLAKE3 use of the same bytes. The value is the ASCII domain name
// zero-padded to 32 bytes; changing it invalidates every stored
// payload hash.
var payloadDomainKey = [32]byte{
	't', 'r', 'e', 'e', 'w', 'i', 'r', 'e', '.', 'p', 'a', 'y', 'l', 'o', 'a', 'd',
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// PayloadHash computes the keyed BLAKE3 hash of an uncompressed CBOR
// payload.
func PayloadHash(payload []byte) Hash {
	hasher, err := blake3.NewKeyed(payloadDomainKey[:])
	if err != nil {
		// NewKeyed only fails for a wrong key length, which the
		// fixed-size key rules out.
		panic("wire: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// String returns the hex form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
