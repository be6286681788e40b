// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory is an in-process implementation of the host object
// model. Classes are defined up front with a default value per
// property; objects hold only their deviations from those defaults,
// plus tags, attributes, and tree linkage.
package memory

import (
	"fmt"
	"maps"
	"slices"

	"github.com/treewire/treewire/lib/model"
)

// Model is an in-memory object model. It is not safe for concurrent
// use.
type Model struct {
	nextID  model.ID
	classes map[string]*classDef
}

type classDef struct {
	name     string
	defaults map[string]any
}

type object struct {
	id        model.ID
	class     *classDef
	props     map[string]any
	tags      []string
	attrs     map[string]any
	parent    *object
	children  []*object
	destroyed bool
}

func (o *object) ID() model.ID      { return o.id }
func (o *object) ClassName() string { return o.class.name }

// NewModel returns an empty model with no classes defined.
func NewModel() *Model {
	return &Model{classes: make(map[string]*classDef)}
}

// DefineClass registers a class and the default value of each of its
// properties. Every property an object of this class can hold must
// appear in defaults (reference properties with a nil default).
// Redefining a class replaces its previous definition; existing
// objects keep the definition they were created with.
func (m *Model) DefineClass(name string, defaults map[string]any) {
	m.classes[name] = &classDef{
		name:     name,
		defaults: maps.Clone(defaults),
	}
}

// Create instantiates a parentless object with every property at its
// class default.
func (m *Model) Create(className string) (model.Object, error) {
	class, ok := m.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownClass, className)
	}
	m.nextID++
	return &object{
		id:    m.nextID,
		class: class,
		props: make(map[string]any),
		attrs: make(map[string]any),
	}, nil
}

// Destroy detaches the object from its parent and marks it and its
// descendants destroyed. Destroyed objects reject further reads and
// writes.
func (m *Model) Destroy(obj model.Object) {
	o := m.own(obj)
	if o == nil || o.destroyed {
		return
	}
	o.detach()
	o.markDestroyed()
}

func (o *object) markDestroyed() {
	o.destroyed = true
	for _, child := range o.children {
		child.markDestroyed()
	}
}

// Get reads a property: the object's own value if set, otherwise the
// class default.
func (m *Model) Get(obj model.Object, property string) (any, error) {
	o, err := m.live(obj)
	if err != nil {
		return nil, err
	}
	if v, ok := o.props[property]; ok {
		return v, nil
	}
	v, ok := o.class.defaults[property]
	if !ok {
		return nil, fmt.Errorf("memory: class %q has no property %q", o.class.name, property)
	}
	return v, nil
}

// Set writes a property. The property must be part of the class
// definition.
func (m *Model) Set(obj model.Object, property string, v any) error {
	o, err := m.live(obj)
	if err != nil {
		return err
	}
	if _, ok := o.class.defaults[property]; !ok {
		return fmt.Errorf("memory: class %q has no property %q", o.class.name, property)
	}
	o.props[property] = v
	return nil
}

// Parent returns the object's parent, or nil at a root.
func (m *Model) Parent(obj model.Object) model.Object {
	o := m.own(obj)
	if o == nil || o.parent == nil {
		return nil
	}
	return o.parent
}

// SetParent moves the object under a new parent, appending it to the
// parent's child list. A nil parent detaches the object. Parenting an
// object under itself or one of its descendants is an error.
func (m *Model) SetParent(obj, parent model.Object) error {
	o, err := m.live(obj)
	if err != nil {
		return err
	}
	if parent == nil {
		o.detach()
		return nil
	}
	p, err := m.live(parent)
	if err != nil {
		return fmt.Errorf("memory: parent: %w", err)
	}
	for ancestor := p; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == o {
			return fmt.Errorf("memory: parenting %q under its own descendant", o.class.name)
		}
	}
	o.detach()
	o.parent = p
	p.children = append(p.children, o)
	return nil
}

// detach removes the object from its parent's child list, preserving
// the order of the remaining children.
func (o *object) detach() {
	if o.parent == nil {
		return
	}
	siblings := o.parent.children
	if i := slices.Index(siblings, o); i >= 0 {
		o.parent.children = slices.Delete(siblings, i, i+1)
	}
	o.parent = nil
}

// Tags returns the object's tags in insertion order.
func (m *Model) Tags(obj model.Object) []string {
	o := m.own(obj)
	if o == nil {
		return nil
	}
	return slices.Clone(o.tags)
}

// AddTag adds a tag to the object. Adding a tag twice, or adding one
// to a destroyed object, is a no-op.
func (m *Model) AddTag(obj model.Object, tag string) {
	o := m.own(obj)
	if o == nil || o.destroyed || slices.Contains(o.tags, tag) {
		return
	}
	o.tags = append(o.tags, tag)
}

// Attributes returns a copy of the object's named attributes.
func (m *Model) Attributes(obj model.Object) map[string]any {
	o := m.own(obj)
	if o == nil {
		return nil
	}
	return maps.Clone(o.attrs)
}

// SetAttribute sets a named attribute. Destroyed objects are left
// untouched.
func (m *Model) SetAttribute(obj model.Object, name string, v any) {
	o := m.own(obj)
	if o == nil || o.destroyed {
		return
	}
	o.attrs[name] = v
}

// Children returns the object's children in tree order.
func (m *Model) Children(obj model.Object) []model.Object {
	o := m.own(obj)
	if o == nil || len(o.children) == 0 {
		return nil
	}
	children := make([]model.Object, len(o.children))
	for i, child := range o.children {
		children[i] = child
	}
	return children
}

// live asserts that obj belongs to this model and has not been
// destroyed.
func (m *Model) live(obj model.Object) (*object, error) {
	o := m.own(obj)
	if o == nil {
		return nil, fmt.Errorf("memory: object is not from this model")
	}
	if o.destroyed {
		return nil, fmt.Errorf("memory: %q object %d is destroyed", o.class.name, o.id)
	}
	return o, nil
}

// own asserts that obj belongs to this implementation.
func (m *Model) own(obj model.Object) *object {
	o, ok := obj.(*object)
	if !ok {
		return nil
	}
	return o
}
