// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math"

	"github.com/treewire/treewire/lib/value"
)

// Codec converts one value type between its live form (the Go types
// in lib/value, plus primitives) and its transport-safe form.
type Codec interface {
	// Encode converts a live value to its transport form.
	Encode(v any) (any, error)

	// Decode converts a transport form back to a live value.
	Decode(v any) (any, error)
}

// registry is the closed tag → codec table. Built once at package
// init; never mutated afterwards, so lookups need no locking.
var registry = map[Tag]Codec{
	TagString:             stringCodec{},
	TagBool:               boolCodec{},
	TagInt:                intCodec{},
	TagInt64:              intCodec{},
	TagFloat:              floatCodec{single: true},
	TagDouble:             floatCodec{},
	TagNumberRange:        numberRangeCodec{},
	TagVector2:            vector2Codec{},
	TagVector3:            vector3Codec{},
	TagTransform:          transformCodec{},
	TagColorSwatch:        colorSwatchCodec{},
	TagColor:              colorCodec{},
	TagEnum:               enumCodec{},
	TagPhysicalProperties: physicalPropertiesCodec{},
	TagNumberSequence:     numberSequenceCodec{},
	TagFont:               fontCodec{},
	TagDim:                dimCodec{},
	TagDim2:               dim2Codec{},
}

// For returns the codec for a tag. The second result is false for
// TagUnknown, TagReference, and any tag outside the closed set —
// callers handle those cases themselves (raw passthrough for unknown
// types, the linking pass for references).
func For(tag Tag) (Codec, bool) {
	c, ok := registry[tag]
	return c, ok
}

type stringCodec struct{}

func (stringCodec) Encode(v any) (any, error) { return asString(v) }
func (stringCodec) Decode(v any) (any, error) { return asString(v) }

type boolCodec struct{}

func (boolCodec) Encode(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a bool", v)
	}
	return b, nil
}

func (boolCodec) Decode(v any) (any, error) { return boolCodec{}.Encode(v) }

type intCodec struct{}

func (intCodec) Encode(v any) (any, error) { return asInt(v) }
func (intCodec) Decode(v any) (any, error) { return asInt(v) }

// floatCodec handles both float widths. Single-precision values are
// passed through float32 on encode, making the permitted precision
// loss happen at a defined point rather than wherever the value next
// lands.
type floatCodec struct {
	single bool
}

func (c floatCodec) Encode(v any) (any, error) {
	f, err := asFloat(v)
	if err != nil {
		return nil, err
	}
	if c.single {
		return float64(float32(f)), nil
	}
	return f, nil
}

func (c floatCodec) Decode(v any) (any, error) {
	return asFloat(v)
}

type numberRangeCodec struct{}

func (numberRangeCodec) Encode(v any) (any, error) {
	r, ok := v.(value.NumberRange)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a NumberRange", v)
	}
	return []float64{r.Min, r.Max}, nil
}

func (numberRangeCodec) Decode(v any) (any, error) {
	f, err := floatSlice(v, 2)
	if err != nil {
		return nil, err
	}
	return value.NumberRange{Min: f[0], Max: f[1]}, nil
}

type vector2Codec struct{}

func (vector2Codec) Encode(v any) (any, error) {
	vec, ok := v.(value.Vector2)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Vector2", v)
	}
	return []float64{vec.X, vec.Y}, nil
}

func (vector2Codec) Decode(v any) (any, error) {
	f, err := floatSlice(v, 2)
	if err != nil {
		return nil, err
	}
	return value.Vector2{X: f[0], Y: f[1]}, nil
}

type vector3Codec struct{}

func (vector3Codec) Encode(v any) (any, error) {
	vec, ok := v.(value.Vector3)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Vector3", v)
	}
	return []float64{vec.X, vec.Y, vec.Z}, nil
}

func (vector3Codec) Decode(v any) (any, error) {
	f, err := floatSlice(v, 3)
	if err != nil {
		return nil, err
	}
	return value.Vector3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// transformCodec encodes a transform as 12 floats: translation X Y Z
// followed by the nine rotation basis components in row-major order.
type transformCodec struct{}

func (transformCodec) Encode(v any) (any, error) {
	t, ok := v.(value.Transform)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Transform", v)
	}
	out := make([]float64, 12)
	out[0], out[1], out[2] = t.Position.X, t.Position.Y, t.Position.Z
	copy(out[3:], t.Rotation[:])
	return out, nil
}

func (transformCodec) Decode(v any) (any, error) {
	f, err := floatSlice(v, 12)
	if err != nil {
		return nil, err
	}
	t := value.Transform{Position: value.Vector3{X: f[0], Y: f[1], Z: f[2]}}
	copy(t.Rotation[:], f[3:])
	return t, nil
}

type colorSwatchCodec struct{}

func (colorSwatchCodec) Encode(v any) (any, error) {
	s, ok := v.(value.ColorSwatch)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a ColorSwatch", v)
	}
	return string(s), nil
}

func (colorSwatchCodec) Decode(v any) (any, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return value.ColorSwatch(s), nil
}

// colorCodec quantizes each [0, 1] channel to an 8-bit integer.
type colorCodec struct{}

func (colorCodec) Encode(v any) (any, error) {
	c, ok := v.(value.Color)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Color", v)
	}
	return []int64{channelByte(c.R), channelByte(c.G), channelByte(c.B)}, nil
}

func (colorCodec) Decode(v any) (any, error) {
	elements, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	if len(elements) != 3 {
		return nil, fmt.Errorf("codec: color has %d channels, want 3", len(elements))
	}
	var channels [3]float64
	for i, element := range elements {
		n, err := asInt(element)
		if err != nil {
			return nil, fmt.Errorf("codec: color channel %d: %w", i, err)
		}
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("codec: color channel %d is %d, want 0-255", i, n)
		}
		channels[i] = float64(n) / 255
	}
	return value.Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// channelByte scales a [0, 1] channel to 0-255, clamping out-of-range
// inputs instead of wrapping.
func channelByte(c float64) int64 {
	scaled := math.Round(c * 255)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return int64(scaled)
}

type enumCodec struct{}

func (enumCodec) Encode(v any) (any, error) {
	t, ok := v.(value.EnumToken)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not an EnumToken", v)
	}
	return t.String(), nil
}

func (enumCodec) Decode(v any) (any, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return value.ParseEnumToken(s)
}

// physicalPropertiesCodec propagates null: a nil *PhysicalProperties
// encodes to nil and nil decodes back to a typed nil pointer. The
// host model treats absence as "use the material default", so the
// codec must never invent a zero tuple for a missing value.
type physicalPropertiesCodec struct{}

func (physicalPropertiesCodec) Encode(v any) (any, error) {
	p, ok := v.(*value.PhysicalProperties)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("codec: %T is not a *PhysicalProperties", v)
	}
	if p == nil {
		return nil, nil
	}
	return []float64{p.Density, p.Friction, p.Elasticity, p.FrictionWeight, p.ElasticityWeight}, nil
}

func (physicalPropertiesCodec) Decode(v any) (any, error) {
	if v == nil {
		return (*value.PhysicalProperties)(nil), nil
	}
	f, err := floatSlice(v, 5)
	if err != nil {
		return nil, err
	}
	return &value.PhysicalProperties{
		Density:          f[0],
		Friction:         f[1],
		Elasticity:       f[2],
		FrictionWeight:   f[3],
		ElasticityWeight: f[4],
	}, nil
}

// numberSequenceCodec encodes a curve as a count-prefixed flat float
// array: [n, time1, value1, smoothing1, ..., timeN, valueN,
// smoothingN].
type numberSequenceCodec struct{}

func (numberSequenceCodec) Encode(v any) (any, error) {
	seq, ok := v.(value.NumberSequence)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a NumberSequence", v)
	}
	out := make([]float64, 0, 1+3*len(seq.Keypoints))
	out = append(out, float64(len(seq.Keypoints)))
	for _, kp := range seq.Keypoints {
		out = append(out, kp.Time, kp.Value, kp.Smoothing)
	}
	return out, nil
}

func (numberSequenceCodec) Decode(v any) (any, error) {
	elements, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("codec: number sequence is missing its count prefix")
	}
	count, err := asInt(elements[0])
	if err != nil {
		return nil, fmt.Errorf("codec: number sequence count: %w", err)
	}
	if count < 0 || len(elements) != int(1+3*count) {
		return nil, fmt.Errorf("codec: number sequence has %d elements, want %d for %d keypoints",
			len(elements), 1+3*count, count)
	}
	seq := value.NumberSequence{Keypoints: make([]value.NumberKeypoint, count)}
	for i := range seq.Keypoints {
		triple, err := floatSlice(elements[1+3*i:1+3*i+3], 3)
		if err != nil {
			return nil, fmt.Errorf("codec: number sequence keypoint %d: %w", i, err)
		}
		seq.Keypoints[i] = value.NumberKeypoint{Time: triple[0], Value: triple[1], Smoothing: triple[2]}
	}
	return seq, nil
}

type fontCodec struct{}

func (fontCodec) Encode(v any) (any, error) {
	f, ok := v.(value.Font)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Font", v)
	}
	return []string{f.Family, f.Weight, f.Style}, nil
}

func (fontCodec) Decode(v any) (any, error) {
	elements, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	if len(elements) != 3 {
		return nil, fmt.Errorf("codec: font has %d fields, want 3", len(elements))
	}
	var fields [3]string
	for i, element := range elements {
		s, err := asString(element)
		if err != nil {
			return nil, fmt.Errorf("codec: font field %d: %w", i, err)
		}
		fields[i] = s
	}
	return value.Font{Family: fields[0], Weight: fields[1], Style: fields[2]}, nil
}

type dimCodec struct{}

func (dimCodec) Encode(v any) (any, error) {
	d, ok := v.(value.Dim)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Dim", v)
	}
	return []float64{d.Scale, d.Offset}, nil
}

func (dimCodec) Decode(v any) (any, error) {
	f, err := floatSlice(v, 2)
	if err != nil {
		return nil, err
	}
	return value.Dim{Scale: f[0], Offset: f[1]}, nil
}

type dim2Codec struct{}

func (dim2Codec) Encode(v any) (any, error) {
	d, ok := v.(value.Dim2)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a Dim2", v)
	}
	return []float64{d.X.Scale, d.X.Offset, d.Y.Scale, d.Y.Offset}, nil
}

func (dim2Codec) Decode(v any) (any, error) {
	f, err := floatSlice(v, 4)
	if err != nil {
		return nil, err
	}
	return value.Dim2{
		X: value.Dim{Scale: f[0], Offset: f[1]},
		Y: value.Dim{Scale: f[2], Offset: f[3]},
	}, nil
}
