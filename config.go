// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"math"
	"time"
)

// SharedConfig holds the settings common to every noise algorithm.
//
// All fields are optional. A zero value means "absent" and is replaced by
// the algorithm default, then by DefaultSharedConfig. Values that make no
// sense (non-positive sizes, non-finite reals) are treated as absent.
type SharedConfig struct {
	// Width is the output width in pixels. Default 512.
	Width int `toml:"width"`

	// Height is the output height in pixels. Default 512.
	Height int `toml:"height"`

	// Seed parameterizes the noise. Default 37. AutoSeed derives it from the clock.
	Seed Seed `toml:"seed"`

	// Frequency controls how fast the noise changes across the image.
	// Higher frequency means smaller, denser features. Default 1.
	Frequency float64 `toml:"frequency"`

	// Octaves is the number of detail layers summed together. Default 1.
	Octaves int `toml:"octaves"`

	// Persistence scales the contribution of each successive octave. Default 0.5.
	// Zero means absent, so a persistence of exactly 0 cannot be requested;
	// use a tiny value such as 1e-9 to silence the upper octaves.
	Persistence float64 `toml:"persistence"`

	// Lacunarity scales the frequency of each successive octave. Default 2.
	Lacunarity float64 `toml:"lacunarity"`

	// Amplitude scales the final value. Default 1. Zero means absent, so an
	// amplitude of exactly 0 cannot be requested. Negative values are kept.
	Amplitude float64 `toml:"amplitude"`
}

// DefaultSharedConfig is the last level of defaults applied by Resolve.
var DefaultSharedConfig = SharedConfig{
	Width:       512,
	Height:      512,
	Seed:        SeedOf(37),
	Frequency:   1,
	Octaves:     1,
	Persistence: 0.5,
	Lacunarity:  2,
	Amplitude:   1,
}

// Params is a fully resolved configuration for a single render call.
type Params struct {
	Width       int
	Height      int
	Seed        int64
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Amplitude   float64
}

// Resolve merges partial with the algorithm defaults and DefaultSharedConfig.
// Precedence for every field, including the seed, is:
// explicit value > algorithm default > shared default.
//
// When the winning seed is AutoSeed, the seed is HashTimestamp of the current
// time in milliseconds. Resolve never fails.
func Resolve(partial, algorithmDefaults SharedConfig) Params {
	return resolveAt(partial, algorithmDefaults, time.Now)
}

func resolveAt(partial, algorithmDefaults SharedConfig, now func() time.Time) Params {
	return Params{
		Width:       firstPositiveInt(partial.Width, algorithmDefaults.Width, DefaultSharedConfig.Width),
		Height:      firstPositiveInt(partial.Height, algorithmDefaults.Height, DefaultSharedConfig.Height),
		Seed:        resolveSeed(now, partial.Seed, algorithmDefaults.Seed, DefaultSharedConfig.Seed),
		Frequency:   firstReal(positive, partial.Frequency, algorithmDefaults.Frequency, DefaultSharedConfig.Frequency),
		Octaves:     firstPositiveInt(partial.Octaves, algorithmDefaults.Octaves, DefaultSharedConfig.Octaves),
		Persistence: firstReal(nonZero, partial.Persistence, algorithmDefaults.Persistence, DefaultSharedConfig.Persistence),
		Lacunarity:  firstReal(nonZero, partial.Lacunarity, algorithmDefaults.Lacunarity, DefaultSharedConfig.Lacunarity),
		Amplitude:   firstReal(nonZero, partial.Amplitude, algorithmDefaults.Amplitude, DefaultSharedConfig.Amplitude),
	}
}

// resolveSeed picks the first set seed in precedence order.
func resolveSeed(now func() time.Time, levels ...Seed) int64 {
	for _, s := range levels {
		if !s.IsSet() {
			continue
		}
		if s.IsAuto() {
			return int64(HashTimestamp(uint64(now().UnixMilli()))) //nolint:gosec // wall clock is positive
		}
		v, _ := s.Value()
		return v
	}
	return 0
}

func firstPositiveInt(levels ...int) int {
	for _, v := range levels {
		if v > 0 {
			return v
		}
	}
	return 0
}

func positive(v float64) bool { return v > 0 }

func nonZero(v float64) bool { return v != 0 }

func firstReal(valid func(float64) bool, levels ...float64) float64 {
	for _, v := range levels {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if valid(v) {
			return v
		}
	}
	return 0
}
