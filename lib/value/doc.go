// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package value defines the closed set of typed values a host object
// model can hold in object properties and attributes: vectors, an
// affine transform, colors (named swatch and RGB), enum tokens,
// numeric ranges and sequences, font descriptors, fixed+relative
// dimension composites, and physical-properties tuples.
//
// These are pure data types with no behavior beyond construction
// helpers and string forms. The codec package maps each of them to a
// transport-safe encoding; the schema package maps reflection-dump
// type names onto them.
//
// This package depends on no other treewire packages.
package value
