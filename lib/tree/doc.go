// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package tree serializes and deserializes object subtrees against a
// schema registry and a host object model.
//
// Both directions use the same two-pass shape: materialize first,
// link second. Serialization walks the tree in pre-order, assigning
// contiguous integer ids from 1 and emitting one [Record] per object
// with default-equal properties elided; a second pass over the
// completed identity lookup rewrites reference-typed properties as
// target ids. Deserialization reconstructs objects in pre-order,
// applying non-reference properties immediately; its second pass
// assigns the reconstructed target objects to reference properties.
// References are never resolved during the first pass, which is what
// makes cyclic references between siblings safe.
//
// Failure policy follows the degrade-and-continue design: unknown
// value types pass through raw, properties missing from the current
// schema are skipped, references whose target is outside the captured
// subtree are dropped. All of it is observable through the structured
// logger supplied in the config; none of it aborts a walk. Only a
// malformed call boundary or an unusable root is a hard failure.
package tree
