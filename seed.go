// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"fmt"
	"strconv"
	"strings"
)

// seedState distinguishes the three forms a Seed can take.
type seedState uint8

const (
	seedUnset seedState = iota
	seedFixed
	seedAuto
)

// autoSeedText is the text form of AutoSeed.
const autoSeedText = "auto"

// Seed parameterizes the pseudo-randomness of a noise function.
//
// The zero value is unset and falls through to the next default level.
// Use SeedOf for a fixed seed or AutoSeed to derive one from the clock.
type Seed struct {
	value int64
	state seedState
}

// AutoSeed requests a seed derived from the current time.
var AutoSeed = Seed{state: seedAuto}

// SeedOf returns a fixed seed.
func SeedOf(v int64) Seed {
	return Seed{value: v, state: seedFixed}
}

// IsSet reports whether the seed is fixed or automatic.
func (s Seed) IsSet() bool { return s.state != seedUnset }

// IsAuto reports whether the seed is AutoSeed.
func (s Seed) IsAuto() bool { return s.state == seedAuto }

// Value returns the fixed seed value and whether the seed is fixed.
func (s Seed) Value() (int64, bool) {
	return s.value, s.state == seedFixed
}

// String returns "auto", the decimal seed, or "" when unset.
func (s Seed) String() string {
	switch s.state {
	case seedAuto:
		return autoSeedText
	case seedFixed:
		return strconv.FormatInt(s.value, 10)
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "auto",
// a decimal integer, or an empty string (unset).
func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := ParseSeed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalTOML lets TOML presets use either `seed = 42` or `seed = "auto"`.
func (s *Seed) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*s = SeedOf(x)
		return nil
	case string:
		return s.UnmarshalText([]byte(x))
	default:
		return fmt.Errorf("noise: seed must be an integer or %q, got %T", autoSeedText, v)
	}
}

// ParseSeed parses the text form of a seed.
func ParseSeed(text string) (Seed, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return Seed{}, nil
	case strings.EqualFold(text, autoSeedText):
		return AutoSeed, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Seed{}, fmt.Errorf("noise: invalid seed %q: %w", text, err)
	}
	return SeedOf(v), nil
}

// timestampPrime is the odd multiplier used by HashTimestamp.
const timestampPrime = 73_156_993_187

// HashTimestamp mixes a millisecond timestamp into a 32-bit seed so that
// consecutive timestamps yield unrelated values. It is deterministic and
// not cryptographic.
func HashTimestamp(ts uint64) uint32 {
	h := ts
	h = ((h << 16) ^ h) * timestampPrime
	h = ((h << 16) ^ h) * timestampPrime
	h = (h << 16) ^ h
	return uint32(h) //nolint:gosec // truncation to 32 bits is the point
}
