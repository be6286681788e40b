// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/treewire/treewire/lib/codec"
	"github.com/treewire/treewire/lib/model"
	"github.com/treewire/treewire/lib/schema"
	"github.com/treewire/treewire/lib/value"
)

// ErrNotCreatable marks a record whose type the registry has no
// creatable schema for. At the root this is the call's failure; below
// the root the record's whole subtree is dropped.
var ErrNotCreatable = errors.New("tree: class is not creatable")

// DeserializerConfig holds the collaborators for a Deserializer.
type DeserializerConfig struct {
	// Registry supplies class schemas. Required.
	Registry *schema.Registry

	// Model is the host object model objects are created in.
	// Required.
	Model model.Model

	// Logger is used for structured diagnostics. If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

// Deserializer reconstructs object subtrees from Records. Safe for
// reuse across calls; each call's id lookup is call-local.
type Deserializer struct {
	registry *schema.Registry
	model    model.Model
	logger   *slog.Logger
}

// NewDeserializer creates a Deserializer.
func NewDeserializer(config DeserializerConfig) (*Deserializer, error) {
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
	return &Deserializer{
		registry: config.Registry,
		model:    config.Model,
		logger:   logger,
	}, nil
}

// deserializeEntry pairs a reconstructed object with its source
// record for the reference pass.
type deserializeEntry struct {
	object model.Object
	class  *schema.Class
	record *Record
}

// DeserializeTree reconstructs the subtree described by record,
// parenting the new root under parent if parent is non-nil. A
// malformed record or a root whose type is not creatable is a hard
// failure; everything else degrades per record. There is no rollback:
// on error the model keeps whatever was built before the failure.
func (d *Deserializer) DeserializeTree(record *Record, parent model.Object) (model.Object, error) {
	if err := record.validate(); err != nil {
		return nil, err
	}

	lookup := make(map[int]*deserializeEntry)
	root, err := d.walk(record, parent, lookup)
	if err != nil {
		return nil, err
	}
	d.resolveReferences(lookup)
	return root, nil
}

// walk reconstructs one record and recurses into its children. A
// child that fails to materialize takes its descendants with it: the
// subtree is dropped rather than reparented, so the reconstructed
// tree never changes shape around a missing node.
func (d *Deserializer) walk(record *Record, parent model.Object, lookup map[int]*deserializeEntry) (model.Object, error) {
	class, ok := d.registry.Class(record.Type)
	if !ok || !class.Creatable {
		return nil, fmt.Errorf("%w: %s", ErrNotCreatable, record.Type)
	}

	obj, err := d.model.Create(record.Type)
	if err != nil {
		return nil, fmt.Errorf("tree: creating %s: %w", record.Type, err)
	}

	if _, exists := lookup[record.ID]; exists {
		d.logger.Warn("duplicate record id, references may resolve to the wrong object",
			"id", record.ID, "class", record.Type)
	}
	lookup[record.ID] = &deserializeEntry{object: obj, class: class, record: record}

	d.applyProperties(obj, class, record)
	for _, tag := range record.Tags {
		d.model.AddTag(obj, tag)
	}
	d.applyAttributes(obj, record)

	if parent != nil {
		if err := d.model.SetParent(obj, parent); err != nil {
			return nil, fmt.Errorf("tree: parenting %s: %w", record.Type, err)
		}
	}

	for _, child := range record.Children {
		if err := child.validate(); err != nil {
			d.logger.Warn("dropping malformed child record", "parent", record.Type, "error", err)
			continue
		}
		if _, err := d.walk(child, obj, lookup); err != nil {
			if errors.Is(err, ErrNotCreatable) {
				d.logger.Debug("dropping subtree for uncreatable class",
					"class", child.Type, "parent", record.Type)
				continue
			}
			return nil, err
		}
	}
	return obj, nil
}

// applyProperties decodes and assigns every non-reference property in
// the record. Properties the current schema does not know (version
// drift) are skipped; reference properties wait for the linking pass.
func (d *Deserializer) applyProperties(obj model.Object, class *schema.Class, record *Record) {
	for name, encoded := range record.Properties {
		spec, ok := class.Property(name)
		if !ok {
			d.logger.Debug("skipping property absent from schema",
				"class", record.Type, "property", name)
			continue
		}
		if spec.IsReference() {
			continue
		}
		decoded, ok := d.decode(record.Type, name, spec.Tag, spec.TypeName, encoded)
		if !ok {
			continue
		}
		if err := d.model.Set(obj, name, decoded); err != nil {
			d.logger.Warn("skipping unassignable property",
				"class", record.Type, "property", name, "error", err)
		}
	}
}

// applyAttributes decodes and assigns the record's attributes, each
// by its own stored type tag.
func (d *Deserializer) applyAttributes(obj model.Object, record *Record) {
	for name, attribute := range record.Attributes {
		decoded, ok := d.decode(record.Type, name, codec.ParseTag(attribute.Type), attribute.Type, attribute.Value)
		if !ok {
			continue
		}
		d.model.SetAttribute(obj, name, decoded)
	}
}

// decode runs one encoded value through its codec. Unknown tags pass
// the raw value through; decode failures and enum members the dump
// does not define skip the value. The second result reports whether
// there is a value to assign.
func (d *Deserializer) decode(className, name string, tag codec.Tag, typeName string, encoded any) (any, bool) {
	c, ok := codec.For(tag)
	if !ok {
		d.logger.Warn("no codec for value type, passing raw value through",
			"class", className, "property", name, "type", typeName)
		return encoded, true
	}
	decoded, err := c.Decode(encoded)
	if err != nil {
		d.logger.Warn("skipping undecodable value",
			"class", className, "property", name, "error", err)
		return nil, false
	}
	if token, isEnum := decoded.(value.EnumToken); isEnum {
		if d.registry.HasEnum(token.Enum) && !d.registry.HasEnumMember(token.Enum, token.Member) {
			d.logger.Warn("skipping unknown enum member",
				"class", className, "property", name, "token", token.String())
			return nil, false
		}
		if !d.registry.HasEnum(token.Enum) {
			d.logger.Debug("enum not in dump, passing token through",
				"class", className, "property", name, "token", token.String())
		}
	}
	return decoded, true
}

// resolveReferences is the deserialize-side linking pass: every
// stored (property, id) whose schema entry is reference-typed is
// resolved against the id lookup and the reconstructed target is
// assigned. Unresolvable ids are skipped.
func (d *Deserializer) resolveReferences(lookup map[int]*deserializeEntry) {
	for _, entry := range lookup {
		for name, raw := range entry.record.Properties {
			spec, ok := entry.class.Property(name)
			if !ok || !spec.IsReference() {
				continue
			}
			id, ok := referenceID(raw)
			if !ok {
				d.logger.Warn("reference property holds a non-id value",
					"class", entry.record.Type, "property", name,
					"value_type", fmt.Sprintf("%T", raw))
				continue
			}
			target, ok := lookup[id]
			if !ok {
				d.logger.Debug("skipping unresolvable reference",
					"class", entry.record.Type, "property", name, "target_id", id)
				continue
			}
			if err := d.model.Set(entry.object, name, target.object); err != nil {
				d.logger.Warn("skipping unassignable reference",
					"class", entry.record.Type, "property", name, "error", err)
			}
		}
	}
}

// referenceID coerces a stored reference id. JSON unmarshalling
// produces float64, CBOR produces uint64, and records straight from
// the serializer hold int64.
func referenceID(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
