// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"errors"
	"testing"

	"github.com/treewire/treewire/lib/model"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel()
	m.DefineClass("Folder", map[string]any{"Name": "Folder"})
	m.DefineClass("Part", map[string]any{
		"Name": "Part",
		"X":    float64(0),
		"Link": nil,
	})
	return m
}

func mustCreate(t *testing.T, m *Model, className string) model.Object {
	t.Helper()
	obj, err := m.Create(className)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", className, err)
	}
	return obj
}

func TestCreate(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	part := mustCreate(t, m, "Part")
	if part.ClassName() != "Part" {
		t.Errorf("ClassName = %q, want Part", part.ClassName())
	}
	other := mustCreate(t, m, "Part")
	if part.ID() == other.ID() {
		t.Error("two objects share an id")
	}

	_, err := m.Create("Phantom")
	if !errors.Is(err, model.ErrUnknownClass) {
		t.Errorf("Create(Phantom) error = %v, want ErrUnknownClass", err)
	}
}

func TestGetSetDefaults(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	part := mustCreate(t, m, "Part")

	x, err := m.Get(part, "X")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if x != float64(0) {
		t.Errorf("fresh X = %v, want class default 0", x)
	}

	if err := m.Set(part, "X", 5.0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	x, _ = m.Get(part, "X")
	if x != 5.0 {
		t.Errorf("X = %v after Set, want 5", x)
	}

	if _, err := m.Get(part, "Q"); err == nil {
		t.Error("Get accepted an undefined property")
	}
	if err := m.Set(part, "Q", 1); err == nil {
		t.Error("Set accepted an undefined property")
	}
}

func TestParenting(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	root := mustCreate(t, m, "Folder")
	a := mustCreate(t, m, "Part")
	b := mustCreate(t, m, "Part")
	c := mustCreate(t, m, "Part")

	for _, child := range []model.Object{a, b, c} {
		if err := m.SetParent(child, root); err != nil {
			t.Fatalf("SetParent error: %v", err)
		}
	}
	children := m.Children(root)
	if len(children) != 3 || children[0].ID() != a.ID() || children[2].ID() != c.ID() {
		t.Fatalf("children out of order: %v", children)
	}
	if m.Parent(a).ID() != root.ID() {
		t.Error("Parent(a) is not root")
	}

	// Reparent b under a; remaining sibling order is preserved.
	if err := m.SetParent(b, a); err != nil {
		t.Fatalf("SetParent error: %v", err)
	}
	children = m.Children(root)
	if len(children) != 2 || children[0].ID() != a.ID() || children[1].ID() != c.ID() {
		t.Errorf("children after reparent: %v, want [a c]", children)
	}

	// Detach.
	if err := m.SetParent(b, nil); err != nil {
		t.Fatalf("SetParent(nil) error: %v", err)
	}
	if m.Parent(b) != nil {
		t.Error("b still has a parent after detach")
	}

	// Cycles are rejected.
	if err := m.SetParent(root, a); err == nil {
		t.Error("SetParent accepted a cycle")
	}
	if err := m.SetParent(a, a); err == nil {
		t.Error("SetParent accepted self-parenting")
	}
}

func TestDestroy(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	root := mustCreate(t, m, "Folder")
	child := mustCreate(t, m, "Part")
	if err := m.SetParent(child, root); err != nil {
		t.Fatalf("SetParent error: %v", err)
	}

	grandchild := mustCreate(t, m, "Part")
	if err := m.SetParent(grandchild, child); err != nil {
		t.Fatalf("SetParent error: %v", err)
	}

	m.Destroy(child)
	if len(m.Children(root)) != 0 {
		t.Error("destroyed child still listed under root")
	}
	// Destroying twice is a no-op.
	m.Destroy(child)

	// Destroyed objects, descendants included, reject reads and writes.
	for name, obj := range map[string]model.Object{"child": child, "grandchild": grandchild} {
		if _, err := m.Get(obj, "X"); err == nil {
			t.Errorf("Get succeeded on destroyed %s", name)
		}
		if err := m.Set(obj, "X", 1.0); err == nil {
			t.Errorf("Set succeeded on destroyed %s", name)
		}
		if err := m.SetParent(obj, root); err == nil {
			t.Errorf("SetParent succeeded on destroyed %s", name)
		}
		m.AddTag(obj, "ghost")
		if len(m.Tags(obj)) != 0 {
			t.Errorf("AddTag took effect on destroyed %s", name)
		}
	}
	if err := m.SetParent(mustCreate(t, m, "Part"), child); err == nil {
		t.Error("SetParent accepted a destroyed parent")
	}
}

func TestTags(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	part := mustCreate(t, m, "Part")

	m.AddTag(part, "red")
	m.AddTag(part, "heavy")
	m.AddTag(part, "red")
	tags := m.Tags(part)
	if len(tags) != 2 || tags[0] != "red" || tags[1] != "heavy" {
		t.Errorf("tags = %v, want [red heavy] in insertion order", tags)
	}
}

func TestAttributes(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	part := mustCreate(t, m, "Part")

	m.SetAttribute(part, "owner", "alice")
	attributes := m.Attributes(part)
	if attributes["owner"] != "alice" {
		t.Errorf("attributes = %v, want owner=alice", attributes)
	}

	// The returned map is a copy; mutating it must not leak back.
	attributes["owner"] = "mallory"
	if m.Attributes(part)["owner"] != "alice" {
		t.Error("Attributes returned the internal map")
	}
}
