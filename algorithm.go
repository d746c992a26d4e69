// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"fmt"
	"strings"
)

// Algorithm identifies a supported noise algorithm.
type Algorithm uint8

const (
	// AlgorithmValue is lattice value noise.
	AlgorithmValue Algorithm = iota
	// AlgorithmSimplex is 2D simplex noise.
	AlgorithmSimplex
	// AlgorithmPerlin is 2D gradient (Perlin) noise.
	AlgorithmPerlin
)

// Algorithms returns every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmValue, AlgorithmSimplex, AlgorithmPerlin}
}

// String returns the lower-case algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmValue:
		return "value"
	case AlgorithmSimplex:
		return "simplex"
	case AlgorithmPerlin:
		return "perlin"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm parses an algorithm name, ignoring case.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if strings.EqualFold(name, a.String()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// fragmentSource returns the bundled fragment stage of the algorithm.
func (a Algorithm) fragmentSource() (string, error) {
	switch a {
	case AlgorithmValue:
		return valueFragmentSource, nil
	case AlgorithmSimplex:
		return simplexFragmentSource, nil
	case AlgorithmPerlin:
		return perlinFragmentSource, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownAlgorithm, a)
	}
}

// Interpolation selects how value noise blends between lattice points.
type Interpolation string

const (
	// Linear interpolation is the fastest but can look blocky.
	Linear Interpolation = "linear"
	// Smoothstep is cubic interpolation. This is the default.
	Smoothstep Interpolation = "smoothstep"
	// Smootherstep is quintic interpolation, the smoothest option.
	Smootherstep Interpolation = "smootherstep"
)

// code maps the interpolation to the integer the shader switches on.
// Unknown or empty values fall back to Smoothstep.
func (i Interpolation) code() int32 {
	switch Interpolation(strings.ToLower(string(i))) {
	case Linear:
		return 0
	case Smootherstep:
		return 2
	default:
		return 1
	}
}

// Config is the closed set of per-algorithm configuration types.
type Config interface {
	ValueConfig | SimplexConfig | PerlinConfig

	shared() SharedConfig
	extras() Parameters
}

// ValueConfig configures value noise.
type ValueConfig struct {
	SharedConfig

	// Interpolation blends between lattice values. Default Smoothstep.
	Interpolation Interpolation `toml:"interpolation"`
}

func (c ValueConfig) shared() SharedConfig { return c.SharedConfig }

func (c ValueConfig) extras() Parameters {
	return Parameters{ParamInterpolation: Int(c.Interpolation.code())}
}

// SimplexConfig configures simplex noise.
type SimplexConfig struct {
	SharedConfig
}

func (c SimplexConfig) shared() SharedConfig { return c.SharedConfig }

func (SimplexConfig) extras() Parameters { return nil }

// PerlinConfig configures Perlin noise.
type PerlinConfig struct {
	SharedConfig
}

func (c PerlinConfig) shared() SharedConfig { return c.SharedConfig }

func (PerlinConfig) extras() Parameters { return nil }

// AnyConfig carries the union of all algorithm fields. It is used with
// Texture, where the algorithm is chosen at run time; fields that do not
// apply to the selected algorithm are ignored.
type AnyConfig struct {
	SharedConfig

	// Interpolation applies to value noise only.
	Interpolation Interpolation `toml:"interpolation"`
}

func (c AnyConfig) valueConfig() ValueConfig {
	return ValueConfig{SharedConfig: c.SharedConfig, Interpolation: c.Interpolation}
}

func (c AnyConfig) simplexConfig() SimplexConfig {
	return SimplexConfig{SharedConfig: c.SharedConfig}
}

func (c AnyConfig) perlinConfig() PerlinConfig {
	return PerlinConfig{SharedConfig: c.SharedConfig}
}
