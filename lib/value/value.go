// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"strings"
)

// Vector2 is a 2D vector.
type Vector2 struct {
	X, Y float64
}

// Vector3 is a 3D vector.
type Vector3 struct {
	X, Y, Z float64
}

// Transform is an affine transform: a translation plus a 3x3 rotation
// basis. Rotation is stored row-major (R00 R01 R02 R10 ... R22). The
// zero Transform has a zero translation and a zero basis; use
// IdentityTransform for the identity.
type Transform struct {
	Position Vector3
	Rotation [9]float64
}

// IdentityTransform returns the transform with zero translation and
// the identity rotation basis.
func IdentityTransform() Transform {
	return Transform{Rotation: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// NumberRange is a closed numeric interval.
type NumberRange struct {
	Min, Max float64
}

// ColorSwatch is a named color from the host model's fixed palette.
// The name string is the canonical identity; the palette itself lives
// in the host model, not here.
type ColorSwatch string

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// EnumToken identifies one member of a named enumeration. Its wire
// form is "Enum.Member".
type EnumToken struct {
	Enum   string
	Member string
}

// String returns the "Enum.Member" form of the token.
func (t EnumToken) String() string {
	return t.Enum + "." + t.Member
}

// ParseEnumToken parses an "Enum.Member" string. Only the first dot
// separates the two parts; member names may themselves contain dots.
func ParseEnumToken(s string) (EnumToken, error) {
	enum, member, ok := strings.Cut(s, ".")
	if !ok || enum == "" || member == "" {
		return EnumToken{}, fmt.Errorf("value: malformed enum token %q, want \"Enum.Member\"", s)
	}
	return EnumToken{Enum: enum, Member: member}, nil
}

// PhysicalProperties is the five-component physical material tuple.
// Properties of this type are nullable in the host model: a nil
// *PhysicalProperties means "use the material default", and the codec
// propagates that null rather than inventing values.
type PhysicalProperties struct {
	Density          float64
	Friction         float64
	Elasticity       float64
	FrictionWeight   float64
	ElasticityWeight float64
}

// NumberKeypoint is one control point of a NumberSequence.
type NumberKeypoint struct {
	Time      float64
	Value     float64
	Smoothing float64
}

// NumberSequence is a piecewise numeric curve: an ordered list of
// keypoints. Keypoint order is preserved end to end; this package does
// not sort or validate monotonicity.
type NumberSequence struct {
	Keypoints []NumberKeypoint
}

// Font is a font descriptor: family name plus named weight and style.
type Font struct {
	Family string
	Weight string
	Style  string
}

// Dim is a one-axis dimension composite: a relative scale plus a
// fixed offset.
type Dim struct {
	Scale  float64
	Offset float64
}

// Dim2 is a two-axis dimension composite.
type Dim2 struct {
	X, Y Dim
}
