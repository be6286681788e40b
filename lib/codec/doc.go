// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec converts typed property values to and from their
// transport-safe forms. The supported types form a closed set: each
// has a [Tag], and the registry maps tags to [Codec] implementations.
// Transport forms are JSON-safe — strings, bools, numbers, and nested
// arrays of those — so an encoded value survives both JSON and CBOR
// marshalling unchanged in meaning.
//
// Round-trip contract: Decode(Encode(v)) == v for every value the
// host model can produce of that type, with two documented
// exceptions: single-precision floats (TagFloat) lose sub-float32
// precision on encode, and RGB colors quantize to 8 bits per channel.
//
// Two tags have no codec by design: TagReference values never pass
// through the ordinary encode path (they become integer ids in a
// separate linking pass), and TagUnknown marks dump types this
// package has no mapping for (callers pass those raw values through
// unchanged and emit a diagnostic).
package codec
