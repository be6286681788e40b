// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema derives per-class property schemas from a raw
// reflection dump. A [Registry] is built once by [Build] and is
// immutable afterwards, except for the lazily-populated per-class
// property defaults (see [Registry.ResolveDefaults]). Superclass
// properties propagate by single inheritance, resolved recursively on
// demand so dump order never matters.
//
// No ambient state: every Registry is an independent value, built
// from its own dump and passed explicitly into the serializer and
// deserializer.
package schema

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/treewire/treewire/lib/codec"
	"github.com/treewire/treewire/lib/reflectdump"
)

// Class tags with structural meaning in the dump.
const (
	// tagService marks infrastructure singletons. Service classes
	// carry no serializable data and are skipped entirely.
	tagService = "Service"

	// tagNotCreatable marks classes the host model cannot
	// instantiate directly. They stay in the registry (subclasses
	// may inherit from them) but are never serialized.
	tagNotCreatable = "NotCreatable"
)

// Member tags that exclude a property from serialization.
var skipMemberTags = []string{"ReadOnly", "NotScriptable", "Deprecated", "Hidden"}

// securityPublic is the security level of members every caller may
// read and write. Members at any other level are excluded.
const securityPublic = "None"

// structuralIgnore lists property names handled out-of-band by tree
// walking, never as ordinary data. The parent link is structure, not
// a property.
var structuralIgnore = map[string]bool{
	"Parent": true,
}

// PropertySpec describes one serializable property of a class.
type PropertySpec struct {
	Name string

	// Tag selects the codec. TagReference marks reference-typed
	// properties, TagUnknown marks dump types with no codec (their
	// values pass through encode and decode unchanged).
	Tag codec.Tag

	// TypeName is the raw value type name from the dump, kept for
	// diagnostics and as the attribute-style type marker for unknown
	// types.
	TypeName string

	// Default is the property's freshly-constructed default value.
	// Nil until the class's defaults have been resolved.
	Default any
}

// IsReference reports whether the property holds another object.
func (p *PropertySpec) IsReference() bool {
	return p.Tag == codec.TagReference
}

// Class is one class's schema: its serializable properties in
// declaration order, own properties before inherited ones.
type Class struct {
	Name       string
	Superclass string

	// Creatable reports whether the host model can instantiate the
	// class directly. Non-creatable classes exist only as
	// inheritance bases.
	Creatable bool

	properties []*PropertySpec
	byName     map[string]*PropertySpec

	defaultsResolved bool
}

// Properties returns the class's property specs in order. The
// returned slice is shared; callers must not modify it.
func (c *Class) Properties() []*PropertySpec {
	return c.properties
}

// Property returns the spec for a named property.
func (c *Class) Property(name string) (*PropertySpec, bool) {
	spec, ok := c.byName[name]
	return spec, ok
}

// Config holds options for Build.
type Config struct {
	// Logger is used for structured diagnostics (unknown value
	// types, missing superclasses). If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Registry holds every class schema and enumeration derived from one
// reflection dump. Immutable after Build except for the defaults
// cache, which ResolveDefaults guards with a mutex.
type Registry struct {
	classes map[string]*Class
	enums   map[string]map[string]bool
	logger  *slog.Logger

	// defaultsMu serializes lazy default resolution. Nothing else in
	// the registry mutates after Build.
	defaultsMu sync.Mutex
}

// Build derives a Registry from a parsed reflection dump. Classes
// tagged as services are skipped; everything else is registered, with
// superclass properties merged in by deep copy regardless of dump
// order. Superclass cycles are an error; a superclass missing from
// the dump is tolerated (the class simply inherits nothing) with a
// diagnostic.
func Build(dump *reflectdump.Dump, config Config) (*Registry, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := &Registry{
		classes: make(map[string]*Class),
		enums:   make(map[string]map[string]bool, len(dump.Enums)),
		logger:  logger,
	}

	for _, enum := range dump.Enums {
		members := make(map[string]bool, len(enum.Items))
		for _, item := range enum.Items {
			members[item.Name] = true
		}
		registry.enums[enum.Name] = members
	}

	b := &builder{
		registry:    registry,
		descriptors: make(map[string]*reflectdump.ClassDescriptor, len(dump.Classes)),
		building:    make(map[string]bool),
	}
	for i := range dump.Classes {
		descriptor := &dump.Classes[i]
		if _, ok := b.descriptors[descriptor.Name]; ok {
			return nil, fmt.Errorf("schema: class %q appears twice in the dump", descriptor.Name)
		}
		b.descriptors[descriptor.Name] = descriptor
	}
	for i := range dump.Classes {
		if _, err := b.class(dump.Classes[i].Name); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Class returns the schema for a named class. Service classes and
// classes absent from the dump have no schema.
func (r *Registry) Class(name string) (*Class, bool) {
	class, ok := r.classes[name]
	return class, ok
}

// HasEnum reports whether the dump defined the named enumeration.
func (r *Registry) HasEnum(enum string) bool {
	_, ok := r.enums[enum]
	return ok
}

// HasEnumMember reports whether the named enumeration defines the
// named member.
func (r *Registry) HasEnumMember(enum, member string) bool {
	return r.enums[enum][member]
}

// builder resolves classes recursively, memoizing into the registry.
type builder struct {
	registry    *Registry
	descriptors map[string]*reflectdump.ClassDescriptor
	building    map[string]bool
}

// class returns the built schema for name, building it (and its
// superclass chain) first if needed. Returns (nil, nil) for service
// classes and for names absent from the dump.
func (b *builder) class(name string) (*Class, error) {
	if class, ok := b.registry.classes[name]; ok {
		return class, nil
	}
	descriptor, ok := b.descriptors[name]
	if !ok {
		return nil, nil
	}
	if descriptor.HasTag(tagService) {
		return nil, nil
	}
	if b.building[name] {
		return nil, fmt.Errorf("schema: superclass cycle through %q", name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	class := &Class{
		Name:       name,
		Superclass: descriptor.Superclass,
		Creatable:  !descriptor.HasTag(tagNotCreatable),
		byName:     make(map[string]*PropertySpec),
	}

	for i := range descriptor.Members {
		member := &descriptor.Members[i]
		if !serializableMember(member) {
			continue
		}
		tag := codec.TagFor(member.ValueType.Category, member.ValueType.Name)
		if tag == codec.TagUnknown {
			// Not fatal: some value types are never used by any
			// serialized object. Their values pass through raw at
			// use time.
			b.registry.logger.Debug("no codec for value type",
				"class", name,
				"property", member.Name,
				"type", member.ValueType.Name)
		}
		spec := &PropertySpec{
			Name:     member.Name,
			Tag:      tag,
			TypeName: member.ValueType.Name,
		}
		class.properties = append(class.properties, spec)
		class.byName[member.Name] = spec
	}

	if descriptor.Superclass != "" {
		superclass, err := b.class(descriptor.Superclass)
		if err != nil {
			return nil, err
		}
		if superclass == nil {
			b.registry.logger.Debug("superclass not in dump, inheriting nothing",
				"class", name,
				"superclass", descriptor.Superclass)
		} else {
			// Deep copy: each class owns its inherited specs, so
			// resolving one class's defaults never leaks into
			// another.
			for _, inherited := range superclass.properties {
				if _, ok := class.byName[inherited.Name]; ok {
					continue
				}
				copied := *inherited
				class.properties = append(class.properties, &copied)
				class.byName[copied.Name] = &copied
			}
		}
	}

	b.registry.classes[name] = class
	return class, nil
}

// serializableMember applies the member filters: only public,
// writable, scriptable property members carry data.
func serializableMember(member *reflectdump.MemberDescriptor) bool {
	if member.MemberType != "Property" {
		return false
	}
	if structuralIgnore[member.Name] {
		return false
	}
	if !publicSecurity(member.Security.Read) || !publicSecurity(member.Security.Write) {
		return false
	}
	for _, tag := range skipMemberTags {
		if member.HasTag(tag) {
			return false
		}
	}
	return true
}

// publicSecurity reports whether a security level is readable and
// writable by everyone. Dumps that omit the level mean public.
func publicSecurity(level string) bool {
	return level == "" || level == securityPublic
}
