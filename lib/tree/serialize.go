// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/treewire/treewire/lib/codec"
	"github.com/treewire/treewire/lib/model"
	"github.com/treewire/treewire/lib/schema"
)

// ErrNotSerializable marks an object whose class the registry has no
// creatable schema for. At the root this is the call's failure; below
// the root the subtree is silently omitted.
var ErrNotSerializable = errors.New("tree: class is not serializable")

// SerializerConfig holds the collaborators for a Serializer.
type SerializerConfig struct {
	// Registry supplies class schemas and cached defaults. Required.
	Registry *schema.Registry

	// Model is the host object model the serializer reads from.
	// Required.
	Model model.Model

	// Logger is used for structured diagnostics. If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

// Serializer converts live object subtrees into Records. Safe for
// reuse across calls; each call's id lookup is call-local, so calls
// are independent and reentrant.
type Serializer struct {
	registry *schema.Registry
	model    model.Model
	logger   *slog.Logger
}

// NewSerializer creates a Serializer.
func NewSerializer(config SerializerConfig) (*Serializer, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("tree: Registry is required")
	}
	if config.Model == nil {
		return nil, fmt.Errorf("tree: Model is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Serializer{
		registry: config.Registry,
		model:    config.Model,
		logger:   logger,
	}, nil
}

// serializeEntry pairs an object with its record for the reference
// pass. The lookup holding these is scoped to one SerializeTree call
// and discarded after linking.
type serializeEntry struct {
	object model.Object
	class  *schema.Class
	record *Record
}

// SerializeTree serializes the subtree rooted at root. Ids are
// assigned in pre-order starting at 1; children whose class is not
// serializable are omitted along with their descendants. A root whose
// class is not serializable is a hard failure (ErrNotSerializable).
func (s *Serializer) SerializeTree(root model.Object) (*Record, error) {
	if root == nil {
		return nil, fmt.Errorf("tree: cannot serialize nil object")
	}

	lookup := make(map[model.ID]*serializeEntry)
	nextID := 1
	record, err := s.walk(root, &nextID, lookup)
	if err != nil {
		return nil, err
	}
	s.resolveReferences(lookup)
	return record, nil
}

// walk serializes one object and recurses into its children,
// assigning ids depth-first so a subtree's ids are contiguous before
// its next sibling's begin.
func (s *Serializer) walk(obj model.Object, nextID *int, lookup map[model.ID]*serializeEntry) (*Record, error) {
	record, class, err := s.serializeObject(obj, nextID)
	if err != nil {
		return nil, err
	}
	lookup[obj.ID()] = &serializeEntry{object: obj, class: class, record: record}

	for _, child := range s.model.Children(obj) {
		childRecord, err := s.walk(child, nextID, lookup)
		if err != nil {
			if errors.Is(err, ErrNotSerializable) {
				s.logger.Debug("omitting unserializable subtree",
					"class", child.ClassName(), "parent", obj.ClassName())
				continue
			}
			return nil, err
		}
		record.Children = append(record.Children, childRecord)
	}
	return record, nil
}

// serializeObject emits the record for a single object: its type, the
// next pre-order id, every non-reference property that differs from
// the class default, tags, and attributes. Reference properties are
// left for the linking pass.
func (s *Serializer) serializeObject(obj model.Object, nextID *int) (*Record, *schema.Class, error) {
	className := obj.ClassName()
	class, ok := s.registry.Class(className)
	if !ok || !class.Creatable {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotSerializable, className)
	}
	if err := s.registry.ResolveDefaults(s.model, className); err != nil {
		return nil, nil, fmt.Errorf("tree: resolving defaults: %w", err)
	}

	record := &Record{Type: className, ID: *nextID}
	*nextID++

	for _, spec := range class.Properties() {
		if spec.IsReference() {
			continue
		}
		live, err := s.model.Get(obj, spec.Name)
		if err != nil {
			s.logger.Warn("skipping unreadable property",
				"class", className, "property", spec.Name, "error", err)
			continue
		}
		if valuesEqual(live, spec.Default) {
			continue
		}
		c, ok := codec.For(spec.Tag)
		if !ok {
			// No codec for this value type: pass the raw value
			// through unchanged rather than abort the walk.
			s.logger.Warn("no codec for value type, passing raw value through",
				"class", className, "property", spec.Name, "type", spec.TypeName)
			s.setProperty(record, spec.Name, live)
			continue
		}
		encoded, err := c.Encode(live)
		if err != nil {
			s.logger.Warn("skipping unencodable property",
				"class", className, "property", spec.Name, "error", err)
			continue
		}
		s.setProperty(record, spec.Name, encoded)
	}

	if tags := s.model.Tags(obj); len(tags) > 0 {
		record.Tags = tags
	}
	s.serializeAttributes(obj, record)

	return record, class, nil
}

// serializeAttributes captures the object's named attributes. Each
// attribute is typed by its runtime value, and that tag is stored
// alongside the encoded value so the decoder need not infer it.
func (s *Serializer) serializeAttributes(obj model.Object, record *Record) {
	attributes := s.model.Attributes(obj)
	if len(attributes) == 0 {
		return
	}
	record.Attributes = make(map[string]Attribute, len(attributes))
	for name, live := range attributes {
		tag := codec.TagForValue(live)
		c, ok := codec.For(tag)
		if !ok {
			s.logger.Warn("no codec for attribute value, passing raw value through",
				"class", record.Type, "attribute", name, "value_type", fmt.Sprintf("%T", live))
			record.Attributes[name] = Attribute{Type: tag.String(), Value: live}
			continue
		}
		encoded, err := c.Encode(live)
		if err != nil {
			s.logger.Warn("skipping unencodable attribute",
				"class", record.Type, "attribute", name, "error", err)
			continue
		}
		record.Attributes[name] = Attribute{Type: tag.String(), Value: encoded}
	}
}

// resolveReferences is the serialize-side linking pass: for every
// captured object, each reference property whose target is also in
// the lookup becomes the target's id. Targets outside the captured
// subtree are dropped silently — dangling external references are not
// representable.
func (s *Serializer) resolveReferences(lookup map[model.ID]*serializeEntry) {
	for _, entry := range lookup {
		for _, spec := range entry.class.Properties() {
			if !spec.IsReference() {
				continue
			}
			live, err := s.model.Get(entry.object, spec.Name)
			if err != nil {
				s.logger.Warn("skipping unreadable reference",
					"class", entry.record.Type, "property", spec.Name, "error", err)
				continue
			}
			if live == nil {
				continue
			}
			target, ok := live.(model.Object)
			if !ok {
				s.logger.Warn("reference property holds a non-object",
					"class", entry.record.Type, "property", spec.Name,
					"value_type", fmt.Sprintf("%T", live))
				continue
			}
			targetEntry, ok := lookup[target.ID()]
			if !ok {
				s.logger.Debug("dropping reference to object outside the subtree",
					"class", entry.record.Type, "property", spec.Name,
					"target_class", target.ClassName())
				continue
			}
			s.setProperty(entry.record, spec.Name, int64(targetEntry.record.ID))
		}
	}
}

func (s *Serializer) setProperty(record *Record, name string, v any) {
	if record.Properties == nil {
		record.Properties = make(map[string]any)
	}
	record.Properties[name] = v
}

// valuesEqual compares a live property value against a cached
// default. Typed nil pointers (a nullable value that is absent) and
// untyped nil compare equal.
func valuesEqual(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
