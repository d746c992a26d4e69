// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"fmt"
	"sort"
)

// Parameter names understood by the bundled shaders. A custom shader may
// declare any subset of them; names it does not declare are skipped.
const (
	ParamWidth         = "u_width"
	ParamHeight        = "u_height"
	ParamSeed          = "u_seed"
	ParamFrequency     = "u_frequency"
	ParamOctaves       = "u_octaves"
	ParamPersistence   = "u_persistence"
	ParamLacunarity    = "u_lacunarity"
	ParamAmplitude     = "u_amplitude"
	ParamInterpolation = "u_interpolation"
)

// ValueKind is the type tag of a shader parameter Value.
type ValueKind uint8

const (
	// KindFloat is a single f32.
	KindFloat ValueKind = iota
	// KindInt is a single i32.
	KindInt
	// KindVec2 is a vec2<f32>.
	KindVec2
	// KindVec3 is a vec3<f32>.
	KindVec3
	// KindVec4 is a vec4<f32>.
	KindVec4
)

// String returns the WGSL spelling of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "f32"
	case KindInt:
		return "i32"
	case KindVec2:
		return "vec2<f32>"
	case KindVec3:
		return "vec3<f32>"
	case KindVec4:
		return "vec4<f32>"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Components returns the number of scalar components of the kind.
func (k ValueKind) Components() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	default:
		return 1
	}
}

// Value is a tagged shader parameter value.
type Value struct {
	Kind ValueKind

	// F holds float components; only the first Kind.Components() are used.
	F [4]float32

	// I holds the value for KindInt.
	I int32
}

// Float returns a scalar float parameter.
func Float(v float32) Value { return Value{Kind: KindFloat, F: [4]float32{v}} }

// Int returns a scalar int parameter.
func Int(v int32) Value { return Value{Kind: KindInt, I: v} }

// Vec2 returns a two-component float vector parameter.
func Vec2(x, y float32) Value { return Value{Kind: KindVec2, F: [4]float32{x, y}} }

// Vec3 returns a three-component float vector parameter.
func Vec3(x, y, z float32) Value { return Value{Kind: KindVec3, F: [4]float32{x, y, z}} }

// Vec4 returns a four-component float vector parameter.
func Vec4(x, y, z, w float32) Value { return Value{Kind: KindVec4, F: [4]float32{x, y, z, w}} }

// Parameters maps parameter names to values. A fresh set is built for
// every render call.
type Parameters map[string]Value

// Names returns the parameter names in sorted order.
func (p Parameters) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sharedParameters builds the parameters every algorithm receives.
func sharedParameters(p Params) Parameters {
	return Parameters{
		ParamWidth:       Float(float32(p.Width)),
		ParamHeight:      Float(float32(p.Height)),
		ParamSeed:        Float(float32(p.Seed)),
		ParamFrequency:   Float(float32(p.Frequency)),
		ParamOctaves:     Int(int32(p.Octaves)), //nolint:gosec // octave counts are small
		ParamPersistence: Float(float32(p.Persistence)),
		ParamLacunarity:  Float(float32(p.Lacunarity)),
		ParamAmplitude:   Float(float32(p.Amplitude)),
	}
}

// merge copies extras over p and returns p.
func (p Parameters) merge(extras Parameters) Parameters {
	for name, v := range extras {
		p[name] = v
	}
	return p
}
