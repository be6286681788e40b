// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/treewire/treewire/lib/value"
)

// Tag identifies one supported value type. Tags are the dispatch key
// for the codec registry and the per-attribute type marker in the
// wire format. The string forms (see [Tag.String]) are protocol
// constants — changing them breaks wire compatibility.
type Tag int

const (
	// TagUnknown marks a dump value type with no codec. Values of
	// unknown types pass through encode and decode unchanged.
	TagUnknown Tag = iota

	TagString
	TagBool
	TagInt
	TagInt64
	TagFloat
	TagDouble
	TagNumberRange
	TagVector2
	TagVector3
	TagTransform
	TagColorSwatch
	TagColor
	TagEnum
	TagPhysicalProperties
	TagNumberSequence
	TagFont
	TagDim
	TagDim2

	// TagReference marks a property whose value is another object in
	// the same tree. References are excluded from the ordinary
	// encode/decode path; the serializer and deserializer resolve
	// them to integer ids in a dedicated second pass.
	TagReference
)

// tagNames maps tags to their wire names. Primitive names are
// lowercase and composite names are CamelCase, matching the value
// type names used in reflection dumps.
var tagNames = map[Tag]string{
	TagUnknown:            "Unknown",
	TagString:             "string",
	TagBool:               "bool",
	TagInt:                "int",
	TagInt64:              "int64",
	TagFloat:              "float",
	TagDouble:             "double",
	TagNumberRange:        "NumberRange",
	TagVector2:            "Vector2",
	TagVector3:            "Vector3",
	TagTransform:          "Transform",
	TagColorSwatch:        "ColorSwatch",
	TagColor:              "Color",
	TagEnum:               "Enum",
	TagPhysicalProperties: "PhysicalProperties",
	TagNumberSequence:     "NumberSequence",
	TagFont:               "Font",
	TagDim:                "Dim",
	TagDim2:               "Dim2",
	TagReference:          "Reference",
}

var tagsByName = func() map[string]Tag {
	byName := make(map[string]Tag, len(tagNames))
	for tag, name := range tagNames {
		byName[name] = tag
	}
	return byName
}()

// String returns the wire name of the tag.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseTag maps a value type name from a reflection dump (or an
// attribute type marker from the wire) to its tag. Unrecognized names
// map to TagUnknown; per the degrade-and-continue policy that is not
// an error.
func ParseTag(name string) Tag {
	if tag, ok := tagsByName[name]; ok {
		return tag
	}
	return TagUnknown
}

// TagFor maps a reflection-dump value type, given as a (category,
// name) pair, to its tag. Category "Class" means the property refers
// to another object; category "Enum" means an enumerant; any other
// category resolves by the type's own name.
func TagFor(category, name string) Tag {
	switch category {
	case "Class":
		return TagReference
	case "Enum":
		return TagEnum
	default:
		return ParseTag(name)
	}
}

// TagForValue infers the tag from a live Go value. Used for
// attributes, which carry no schema: each attribute is typed by its
// runtime value and the inferred tag travels alongside the encoded
// value so the decoder need not guess.
func TagForValue(v any) Tag {
	switch v.(type) {
	case string:
		return TagString
	case bool:
		return TagBool
	case int, int32, int64:
		return TagInt64
	case float32:
		return TagFloat
	case float64:
		return TagDouble
	case value.NumberRange:
		return TagNumberRange
	case value.Vector2:
		return TagVector2
	case value.Vector3:
		return TagVector3
	case value.Transform:
		return TagTransform
	case value.ColorSwatch:
		return TagColorSwatch
	case value.Color:
		return TagColor
	case value.EnumToken:
		return TagEnum
	case *value.PhysicalProperties:
		return TagPhysicalProperties
	case value.NumberSequence:
		return TagNumberSequence
	case value.Font:
		return TagFont
	case value.Dim:
		return TagDim
	case value.Dim2:
		return TagDim2
	default:
		return TagUnknown
	}
}
