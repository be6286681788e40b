// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/treewire/treewire/lib/codec"
	"github.com/treewire/treewire/lib/reflectdump"
)

func property(name, category, typeName string) reflectdump.MemberDescriptor {
	return reflectdump.MemberDescriptor{
		MemberType: "Property",
		Name:       name,
		Security:   reflectdump.Security{Read: "None", Write: "None"},
		ValueType:  reflectdump.ValueType{Category: category, Name: typeName},
	}
}

// testDump lists the subclass before its superclass on purpose: the
// builder must resolve Node on demand while building Leaf.
func testDump() *reflectdump.Dump {
	return &reflectdump.Dump{
		Classes: []reflectdump.ClassDescriptor{
			{
				Name:       "Leaf",
				Superclass: "Node",
				Members: []reflectdump.MemberDescriptor{
					property("X", "Primitive", "double"),
					property("LinkedLeaf", "Class", "Leaf"),
					property("Material", "Enum", "Material"),
					property("Whatsit", "DataType", "Quaternion"),
					property("Parent", "Class", "Node"),
					{
						MemberType: "Property",
						Name:       "Cache",
						Security:   reflectdump.Security{Read: "None", Write: "None"},
						ValueType:  reflectdump.ValueType{Category: "Primitive", Name: "double"},
						Tags:       []string{"ReadOnly"},
					},
					{
						MemberType: "Property",
						Name:       "Secret",
						Security:   reflectdump.Security{Read: "None", Write: "PluginSecurity"},
						ValueType:  reflectdump.ValueType{Category: "Primitive", Name: "string"},
					},
					{
						MemberType: "Function",
						Name:       "Explode",
					},
				},
			},
			{Name: "Group", Superclass: "Node"},
			{
				Name: "Node",
				Tags: []string{"NotCreatable"},
				Members: []reflectdump.MemberDescriptor{
					property("Name", "Primitive", "string"),
				},
			},
			{
				Name: "Workshop",
				Tags: []string{"Service"},
				Members: []reflectdump.MemberDescriptor{
					property("Gravity", "Primitive", "double"),
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
}

func TestBuildInheritance(t *testing.T) {
	t.Parallel()

	registry, err := Build(testDump(), Config{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	leaf, ok := registry.Class("Leaf")
	if !ok {
		t.Fatal("Leaf has no schema")
	}
	if !leaf.Creatable {
		t.Error("Leaf should be creatable")
	}

	// Own properties first, inherited appended after.
	var names []string
	for _, spec := range leaf.Properties() {
		names = append(names, spec.Name)
	}
	want := []string{"X", "LinkedLeaf", "Material", "Whatsit", "Name"}
	if len(names) != len(want) {
		t.Fatalf("properties = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("properties = %v, want %v", names, want)
		}
	}

	group, ok := registry.Class("Group")
	if !ok {
		t.Fatal("Group has no schema")
	}
	if _, ok := group.Property("Name"); !ok {
		t.Error("Group did not inherit Name from Node")
	}

	node, ok := registry.Class("Node")
	if !ok {
		t.Fatal("Node has no schema")
	}
	if node.Creatable {
		t.Error("Node should not be creatable")
	}
}

func TestBuildPropertyTags(t *testing.T) {
	t.Parallel()

	registry, err := Build(testDump(), Config{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	leaf, _ := registry.Class("Leaf")

	tests := []struct {
		property string
		tag      codec.Tag
	}{
		{"X", codec.TagDouble},
		{"LinkedLeaf", codec.TagReference},
		{"Material", codec.TagEnum},
		{"Whatsit", codec.TagUnknown},
	}
	for _, test := range tests {
		spec, ok := leaf.Property(test.property)
		if !ok {
			t.Errorf("Leaf.%s missing from schema", test.property)
			continue
		}
		if spec.Tag != test.tag {
			t.Errorf("Leaf.%s tag = %v, want %v", test.property, spec.Tag, test.tag)
		}
	}
	if spec, _ := leaf.Property("LinkedLeaf"); !spec.IsReference() {
		t.Error("LinkedLeaf is not marked as a reference")
	}
}

func TestBuildFilters(t *testing.T) {
	t.Parallel()

	registry, err := Build(testDump(), Config{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if _, ok := registry.Class("Workshop"); ok {
		t.Error("service class Workshop should have no schema")
	}

	leaf, _ := registry.Class("Leaf")
	for _, excluded := range []string{"Parent", "Cache", "Secret", "Explode"} {
		if _, ok := leaf.Property(excluded); ok {
			t.Errorf("Leaf.%s should be excluded from the schema", excluded)
		}
	}
}

func TestBuildEnums(t *testing.T) {
	t.Parallel()

	registry, err := Build(testDump(), Config{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if !registry.HasEnum("Material") {
		t.Error("Material enum missing")
	}
	if !registry.HasEnumMember("Material", "Stone") {
		t.Error("Material.Stone missing")
	}
	if registry.HasEnumMember("Material", "Plasma") {
		t.Error("Material.Plasma should not exist")
	}
	if registry.HasEnum("Phase") {
		t.Error("Phase enum should not exist")
	}
}

func TestBuildSuperclassCycle(t *testing.T) {
	t.Parallel()

	dump := &reflectdump.Dump{Classes: []reflectdump.ClassDescriptor{
		{Name: "A", Superclass: "B"},
		{Name: "B", Superclass: "A"},
	}}
	if _, err := Build(dump, Config{}); err == nil {
		t.Error("Build accepted a superclass cycle")
	}
}

func TestBuildDuplicateClass(t *testing.T) {
	t.Parallel()

	dump := &reflectdump.Dump{Classes: []reflectdump.ClassDescriptor{
		{Name: "A"},
		{Name: "A"},
	}}
	if _, err := Build(dump, Config{}); err == nil {
		t.Error("Build accepted a duplicate class")
	}
}

func TestBuildMissingSuperclassTolerated(t *testing.T) {
	t.Parallel()

	dump := &reflectdump.Dump{Classes: []reflectdump.ClassDescriptor{
		{Name: "A", Superclass: "Vanished", Members: []reflectdump.MemberDescriptor{
			property("X", "Primitive", "double"),
		}},
	}}
	registry, err := Build(dump, Config{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	a, ok := registry.Class("A")
	if !ok {
		t.Fatal("A has no schema")
	}
	if len(a.Properties()) != 1 {
		t.Errorf("A has %d properties, want only its own", len(a.Properties()))
	}
}
