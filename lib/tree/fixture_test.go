// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"io"
	"log/slog"
	"testing"

	"github.com/treewire/treewire/lib/model"
	"github.com/treewire/treewire/lib/model/memory"
	"github.com/treewire/treewire/lib/reflectdump"
	"github.com/treewire/treewire/lib/schema"
	"github.com/treewire/treewire/lib/value"
)

func property(name, category, typeName string) reflectdump.MemberDescriptor {
	return reflectdump.MemberDescriptor{
		MemberType: "Property",
		Name:       name,
		Security:   reflectdump.Security{Read: "None", Write: "None"},
		ValueType:  reflectdump.ValueType{Category: category, Name: typeName},
	}
}

// testRegistry builds the schema used throughout the package tests: a
// non-creatable Node base, a Group container, and a Leaf with one
// property of each interesting kind (numeric, reference, enum,
// composite, unknown).
func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	dump := &reflectdump.Dump{
		Classes: []reflectdump.ClassDescriptor{
			{
				Name: "Node",
				Tags: []string{"NotCreatable"},
				Members: []reflectdump.MemberDescriptor{
					property("Name", "Primitive", "string"),
				},
			},
			{Name: "Group", Superclass: "Node"},
			{
				Name:       "Leaf",
				Superclass: "Node",
				Members: []reflectdump.MemberDescriptor{
					property("X", "Primitive", "double"),
					property("LinkedLeaf", "Class", "Leaf"),
					property("Material", "Enum", "Material"),
					property("Size", "DataType", "Vector3"),
					property("Whatsit", "DataType", "Quaternion"),
				},
			},
		},
		Enums: []reflectdump.EnumDescriptor{
			{Name: "Material", Items: []reflectdump.EnumItemDescriptor{
				{Name: "Wood", Value: 0},
				{Name: "Stone", Value: 1},
			}},
		},
	}
	registry, err := schema.Build(dump, schema.Config{Logger: testLogger()})
	if err != nil {
		t.Fatalf("schema.Build error: %v", err)
	}
	return registry
}

// testModel builds a host model with the fixture classes plus Ghost,
// a class that exists in the model but not in the schema.
func testModel() *memory.Model {
	m := memory.NewModel()
	m.DefineClass("Group", map[string]any{"Name": "Group"})
	m.DefineClass("Leaf", map[string]any{
		"Name":       "Leaf",
		"X":          float64(0),
		"LinkedLeaf": nil,
		"Material":   value.EnumToken{Enum: "Material", Member: "Wood"},
		"Size":       value.Vector3{X: 1, Y: 1, Z: 1},
		"Whatsit":    "factory-blob",
	})
	m.DefineClass("Ghost", map[string]any{"Name": "Ghost"})
	return m
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSerializer(t *testing.T, registry *schema.Registry, m model.Model) *Serializer {
	t.Helper()
	s, err := NewSerializer(SerializerConfig{Registry: registry, Model: m, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewSerializer error: %v", err)
	}
	return s
}

func newDeserializer(t *testing.T, registry *schema.Registry, m model.Model) *Deserializer {
	t.Helper()
	d, err := NewDeserializer(DeserializerConfig{Registry: registry, Model: m, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewDeserializer error: %v", err)
	}
	return d
}

func mustCreate(t *testing.T, m *memory.Model, className string) model.Object {
	t.Helper()
	obj, err := m.Create(className)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", className, err)
	}
	return obj
}

func mustSet(t *testing.T, m *memory.Model, obj model.Object, property string, v any) {
	t.Helper()
	if err := m.Set(obj, property, v); err != nil {
		t.Fatalf("Set(%s.%s) error: %v", obj.ClassName(), property, err)
	}
}

func mustParent(t *testing.T, m *memory.Model, obj, parent model.Object) {
	t.Helper()
	if err := m.SetParent(obj, parent); err != nil {
		t.Fatalf("SetParent error: %v", err)
	}
}
