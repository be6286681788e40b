// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/treewire/treewire/lib/model"
)

// ResolveDefaults captures the default value of every non-reference
// property of the named class by instantiating one transient object
// through the host model, reading each property, and destroying the
// transient before returning. Destruction happens on every exit path,
// including after a failed read.
//
// Defaults are resolved at most once per class, ever: a second call
// for the same class is a no-op. The serializer invokes this lazily
// on first contact with a class, so a process that only ever touches
// a few classes pays for only those.
//
// Safe for concurrent callers; resolution is serialized by a mutex.
func (r *Registry) ResolveDefaults(m model.Model, className string) error {
	r.defaultsMu.Lock()
	defer r.defaultsMu.Unlock()

	class, ok := r.classes[className]
	if !ok {
		return fmt.Errorf("schema: no schema for class %q", className)
	}
	if class.defaultsResolved {
		return nil
	}
	if !class.Creatable {
		return fmt.Errorf("schema: class %q is not creatable, cannot resolve defaults", className)
	}

	transient, err := m.Create(className)
	if err != nil {
		return fmt.Errorf("schema: creating transient %s: %w", className, err)
	}
	defer m.Destroy(transient)

	for _, spec := range class.properties {
		// Reference properties are always significant on the wire;
		// they have no meaningful default.
		if spec.IsReference() {
			continue
		}
		v, err := m.Get(transient, spec.Name)
		if err != nil {
			return fmt.Errorf("schema: reading default %s.%s: %w", className, spec.Name, err)
		}
		spec.Default = v
	}

	class.defaultsResolved = true
	return nil
}

// DefaultsResolved reports whether the class's defaults have been
// captured.
func (r *Registry) DefaultsResolved(className string) bool {
	r.defaultsMu.Lock()
	defer r.defaultsMu.Unlock()
	class, ok := r.classes[className]
	return ok && class.defaultsResolved
}
