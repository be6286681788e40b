// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire turns serialized tree records into transportable
// bytes. Two formats share the record shape:
//
//   - JSON for debugging and for embedding records in text media
//     ([MarshalJSON], [UnmarshalJSON]).
//   - Deterministic CBOR for storage and transfer ([Marshal],
//     [Unmarshal]): RFC 8949 Core Deterministic Encoding, so the same
//     tree always produces identical bytes.
//
// [Encode] wraps the CBOR bytes in a self-describing envelope with
// optional lz4 or zstd compression and a keyed BLAKE3 hash of the
// uncompressed payload; [Decode] reverses it, verifying size and
// hash. Because the CBOR encoding is deterministic, the payload hash
// is a stable identity for the serialized tree, usable for
// deduplication and caching.
package wire
