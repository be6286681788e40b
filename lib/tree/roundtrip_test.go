// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"testing"

	"github.com/treewire/treewire/lib/value"
)

// TestRoundTrip serializes a tree exercising every property kind out
// of one model and reconstructs it in a second, independent model.
// The result must be structurally isomorphic with all non-default
// state carried over and the reference re-pointed at the
// reconstructed counterpart.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)
	source := testModel()

	root := mustCreate(t, source, "Group")
	leaf1 := mustCreate(t, source, "Leaf")
	leaf2 := mustCreate(t, source, "Leaf")
	mustParent(t, source, leaf1, root)
	mustParent(t, source, leaf2, root)

	mustSet(t, source, leaf1, "X", 2.25)
	mustSet(t, source, leaf1, "Size", value.Vector3{X: 4, Y: 1, Z: 2})
	mustSet(t, source, leaf1, "Material", value.EnumToken{Enum: "Material", Member: "Stone"})
	mustSet(t, source, leaf2, "LinkedLeaf", leaf1)
	source.AddTag(leaf1, "spawn")
	source.SetAttribute(leaf2, "owner", "alice")
	source.SetAttribute(leaf2, "offset", value.Dim2{X: value.Dim{Scale: 0.5, Offset: 8}})

	record, err := newSerializer(t, registry, source).SerializeTree(root)
	if err != nil {
		t.Fatalf("SerializeTree error: %v", err)
	}

	target := testModel()
	newRoot, err := newDeserializer(t, registry, target).DeserializeTree(record, nil)
	if err != nil {
		t.Fatalf("DeserializeTree error: %v", err)
	}

	if newRoot.ClassName() != "Group" {
		t.Fatalf("root class = %q, want Group", newRoot.ClassName())
	}
	children := target.Children(newRoot)
	if len(children) != 2 {
		t.Fatalf("root has %d children, want 2", len(children))
	}
	newLeaf1, newLeaf2 := children[0], children[1]

	x, _ := target.Get(newLeaf1, "X")
	if x != 2.25 {
		t.Errorf("X = %v, want 2.25", x)
	}
	size, _ := target.Get(newLeaf1, "Size")
	if size != (value.Vector3{X: 4, Y: 1, Z: 2}) {
		t.Errorf("Size = %v, want {4 1 2}", size)
	}
	material, _ := target.Get(newLeaf1, "Material")
	if material != (value.EnumToken{Enum: "Material", Member: "Stone"}) {
		t.Errorf("Material = %v, want Stone", material)
	}

	// Reference fidelity: the link points at the reconstructed
	// counterpart, not at anything in the source model.
	linked, _ := target.Get(newLeaf2, "LinkedLeaf")
	if linked != newLeaf1 {
		t.Errorf("LinkedLeaf = %v, want the reconstructed first leaf", linked)
	}

	tags := target.Tags(newLeaf1)
	if len(tags) != 1 || tags[0] != "spawn" {
		t.Errorf("tags = %v, want [spawn]", tags)
	}
	attributes := target.Attributes(newLeaf2)
	if attributes["owner"] != "alice" {
		t.Errorf("owner = %v, want alice", attributes["owner"])
	}
	if attributes["offset"] != (value.Dim2{X: value.Dim{Scale: 0.5, Offset: 8}}) {
		t.Errorf("offset = %v, want the Dim2 round-tripped", attributes["offset"])
	}
}

// TestRoundTripDefaultsStayDefault: what was elided on serialize
// comes back as the class default on deserialize.
func TestRoundTripDefaultsStayDefault(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)
	source := testModel()
	leaf := mustCreate(t, source, "Leaf")
	mustSet(t, source, leaf, "X", float64(7))

	record, err := newSerializer(t, registry, source).SerializeTree(leaf)
	if err != nil {
		t.Fatalf("SerializeTree error: %v", err)
	}

	target := testModel()
	newLeaf, err := newDeserializer(t, registry, target).DeserializeTree(record, nil)
	if err != nil {
		t.Fatalf("DeserializeTree error: %v", err)
	}

	size, _ := target.Get(newLeaf, "Size")
	if size != (value.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Size = %v, want the untouched class default", size)
	}
	x, _ := target.Get(newLeaf, "X")
	if x != float64(7) {
		t.Errorf("X = %v, want 7", x)
	}
}
