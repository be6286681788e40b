// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package reflectdump defines the raw reflection dump: the external
// description of every class, its members, their value types and
// security levels, and every enumeration the host model exposes. The
// schema package consumes a parsed Dump; this package also provides
// Parse and ReadFile for dumps stored on disk as JSON or JSONC (JSON
// extended with comments and trailing commas).
//
// Fetching a dump over the network is out of scope; callers obtain
// the bytes however they like and hand them to Parse.
package reflectdump

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/tidwall/jsonc"
)

// Dump is a parsed reflection dump.
type Dump struct {
	Classes []ClassDescriptor `json:"Classes"`
	Enums   []EnumDescriptor  `json:"Enums,omitempty"`
}

// ClassDescriptor describes one class: its name, optional superclass,
// class-level tags, and members.
type ClassDescriptor struct {
	Name       string             `json:"Name"`
	Superclass string             `json:"Superclass,omitempty"`
	Tags       []string           `json:"Tags,omitempty"`
	Members    []MemberDescriptor `json:"Members,omitempty"`
}

// HasTag reports whether the class carries the given tag.
func (c *ClassDescriptor) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// MemberDescriptor describes one class member. Only members with
// MemberType "Property" carry serializable data; functions, events,
// and callbacks are ignored by the schema builder.
type MemberDescriptor struct {
	MemberType string    `json:"MemberType"`
	Name       string    `json:"Name"`
	Security   Security  `json:"Security,omitzero"`
	ValueType  ValueType `json:"ValueType,omitzero"`
	Tags       []string  `json:"Tags,omitempty"`
}

// HasTag reports whether the member carries the given tag.
func (m *MemberDescriptor) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// Security holds a member's read and write security levels. The
// public level is "None"; anything else hides the member from
// serialization.
type Security struct {
	Read  string `json:"Read"`
	Write string `json:"Write"`
}

// UnmarshalJSON accepts both dump spellings: a bare string (the same
// level for read and write) or a {"Read": ..., "Write": ...} object.
func (s *Security) UnmarshalJSON(data []byte) error {
	var level string
	if err := json.Unmarshal(data, &level); err == nil {
		s.Read, s.Write = level, level
		return nil
	}
	type security Security
	return json.Unmarshal(data, (*security)(s))
}

// ValueType is a member's value type: a category plus a name. The
// categories "Class" (object reference) and "Enum" (enumerant) are
// significant on their own; for every other category the name
// identifies the type.
type ValueType struct {
	Category string `json:"Category"`
	Name     string `json:"Name"`
}

// EnumDescriptor describes one enumeration and its members.
type EnumDescriptor struct {
	Name  string               `json:"Name"`
	Items []EnumItemDescriptor `json:"Items"`
}

// EnumItemDescriptor is one member of an enumeration.
type EnumItemDescriptor struct {
	Name  string `json:"Name"`
	Value int    `json:"Value"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Dump.
func Parse(data []byte) (*Dump, error) {
	stripped := jsonc.ToJSON(data)

	var dump Dump
	if err := json.Unmarshal(stripped, &dump); err != nil {
		return nil, fmt.Errorf("parsing reflection dump: %w", err)
	}
	if len(dump.Classes) == 0 {
		return nil, fmt.Errorf("reflection dump has no classes")
	}

	return &dump, nil
}

// ReadFile reads a JSON or JSONC reflection dump from disk and parses
// it.
func ReadFile(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	dump, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dump, nil
}
