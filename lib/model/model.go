// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package model declares the host object model collaborator: the
// create/destroy/get/set/parent/tag/attribute primitives the
// serializer core drives but does not implement. The memory
// subpackage provides a complete in-process implementation, used by
// the test suite and by embedders that want a self-contained tree
// store.
package model

import "errors"

// ErrUnknownClass is returned by Create for a class name the model
// has no definition for.
var ErrUnknownClass = errors.New("model: unknown class")

// ID is a stable identity key for an object within one model. IDs are
// never reused for the lifetime of the model, so they are safe as map
// keys across create/destroy cycles.
type ID uint64

// Object is a handle to one live object. Implementations supply
// identity and class name; everything else goes through the owning
// Model.
type Object interface {
	// ID returns the object's stable identity key.
	ID() ID

	// ClassName returns the name of the object's class.
	ClassName() string
}

// Model is the host object model. All tree structure and property
// state lives behind this interface; the serializer core only ever
// reads and writes through it.
//
// Property values use the types in lib/value plus Go primitives
// (string, bool, int64, float64). Reference-typed properties hold an
// Object (or nil).
type Model interface {
	// Create instantiates a new parentless object of the named class
	// with every property at its class default. Returns
	// ErrUnknownClass (possibly wrapped) for names the model cannot
	// instantiate.
	Create(className string) (Object, error)

	// Destroy removes an object and its descendants from the model.
	// Destroying an already-destroyed object is a no-op.
	Destroy(obj Object)

	// Get reads a property value.
	Get(obj Object, property string) (any, error)

	// Set writes a property value.
	Set(obj Object, property string, v any) error

	// Parent returns the object's parent, or nil at a root.
	Parent(obj Object) Object

	// SetParent moves the object under a new parent, appending it to
	// the parent's child list. A nil parent detaches the object.
	SetParent(obj, parent Object) error

	// Tags returns the object's tags in insertion order.
	Tags(obj Object) []string

	// AddTag adds a tag to the object. Adding a tag twice is a no-op.
	AddTag(obj Object, tag string)

	// Attributes returns the object's named attributes.
	Attributes(obj Object) map[string]any

	// SetAttribute sets a named attribute.
	SetAttribute(obj Object, name string, v any)

	// Children returns the object's children in tree order.
	Children(obj Object) []Object
}
