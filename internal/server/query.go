// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gogpu/noise"
)

// errBadQuery marks client errors in query parameters.
var errBadQuery = errors.New("bad query")

// parseConfig reads the render configuration from query parameters.
func parseConfig(q url.Values) (cfg noise.AnyConfig, err error) {
	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &cfg.Width},
		{"height", &cfg.Height},
		{"octaves", &cfg.Octaves},
	}
	for _, f := range ints {
		s := q.Get(f.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %q is not an integer", errBadQuery, f.name, s)
		}
		*f.dst = v
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"frequency", &cfg.Frequency},
		{"persistence", &cfg.Persistence},
		{"lacunarity", &cfg.Lacunarity},
		{"amplitude", &cfg.Amplitude},
	}
	for _, f := range floats {
		s := q.Get(f.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %q is not a number", errBadQuery, f.name, s)
		}
		*f.dst = v
	}

	seed, err := noise.ParseSeed(q.Get("seed"))
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", errBadQuery, err)
	}
	cfg.Seed = seed

	switch interp := noise.Interpolation(strings.ToLower(q.Get("interpolation"))); interp {
	case "", noise.Linear, noise.Smoothstep, noise.Smootherstep:
		cfg.Interpolation = interp
	default:
		return cfg, fmt.Errorf("%w: interpolation: unknown mode %q", errBadQuery, interp)
	}

	return cfg, nil
}

// effectiveSeed returns the seed level that wins resolution.
func effectiveSeed(levels ...noise.Seed) noise.Seed {
	for _, s := range levels {
		if s.IsSet() {
			return s
		}
	}
	return noise.DefaultSharedConfig.Seed
}

// cacheKey identifies a deterministic PNG render.
func cacheKey(alg noise.Algorithm, p noise.Params, interp noise.Interpolation) []any {
	parts := []any{alg.String(), p.Width, p.Height, p.Seed, p.Frequency, p.Octaves,
		p.Persistence, p.Lacunarity, p.Amplitude}
	if alg == noise.AlgorithmValue {
		if interp == "" {
			interp = noise.Smoothstep
		}
		parts = append(parts, string(interp))
	}
	return parts
}
