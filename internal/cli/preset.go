// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gogpu/noise"
)

// Preset is a TOML render preset. Top-level noise fields configure each
// render; [defaults] become the generator's algorithm-level defaults.
//
//	algorithm = "value"
//	width = 256
//	seed = "auto"
//	interpolation = "smootherstep"
//
//	[defaults]
//	octaves = 4
//
//	[server]
//	addr = ":8080"
//	redis = "redis://localhost:6379/0"
//	cache_ttl = "1h"
type Preset struct {
	Algorithm string `toml:"algorithm"`
	Backend   string `toml:"backend"`

	noise.AnyConfig

	Defaults noise.SharedConfig `toml:"defaults"`
	Server   ServerPreset       `toml:"server"`
}

// ServerPreset configures the serve command.
type ServerPreset struct {
	Addr         string        `toml:"addr"`
	Redis        string        `toml:"redis"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
	CacheBytes   int64         `toml:"cache_bytes"`
	MaxDimension int           `toml:"max_dimension"`
}

// loadPreset decodes a preset file. Unknown keys are an error so typos do
// not silently fall back to defaults.
func loadPreset(path string) (Preset, error) {
	var p Preset
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Preset{}, fmt.Errorf("preset %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return p, nil
}

func (p *Preset) options() []noise.Option {
	opts := []noise.Option{noise.WithDefaults(p.Defaults)}
	if p.Backend != "" {
		opts = append(opts, noise.WithBackendName(p.Backend))
	}
	return opts
}

// configFlags are the noise settings every rendering command accepts.
type configFlags struct {
	config        string
	backend       string
	width         int
	height        int
	seed          string
	frequency     float64
	octaves       int
	persistence   float64
	lacunarity    float64
	amplitude     float64
	interpolation string
}

func (f *configFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "TOML preset file")
	fs.StringVar(&f.backend, "backend", "", "rendering backend (default: first available)")
	fs.IntVar(&f.width, "width", 0, "width in pixels (default 512)")
	fs.IntVar(&f.height, "height", 0, "height in pixels (default 512)")
	fs.StringVar(&f.seed, "seed", "", `integer seed or "auto" (default 37)`)
	fs.Float64Var(&f.frequency, "frequency", 0, "base frequency (default 1)")
	fs.IntVar(&f.octaves, "octaves", 0, "number of octaves (default 1)")
	fs.Float64Var(&f.persistence, "persistence", 0, "amplitude falloff per octave (default 0.5)")
	fs.Float64Var(&f.lacunarity, "lacunarity", 0, "frequency growth per octave (default 2)")
	fs.Float64Var(&f.amplitude, "amplitude", 0, "output scale (default 1)")
	fs.StringVar(&f.interpolation, "interpolation", "", "value noise: linear, smoothstep or smootherstep")
}

// resolve loads the preset, applies the changed flags on top, and takes
// the algorithm from args when given.
func (f *configFlags) resolve(cmd *cobra.Command, args []string) (*Preset, error) {
	var p Preset
	if f.config != "" {
		var err error
		if p, err = loadPreset(f.config); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if len(args) > 0 {
		p.Algorithm = args[0]
	}
	if p.Algorithm == "" {
		return nil, fmt.Errorf("no algorithm given (one of %s)", algorithmNames())
	}
	if changed("backend") {
		p.Backend = f.backend
	}
	if changed("width") {
		p.Width = f.width
	}
	if changed("height") {
		p.Height = f.height
	}
	if changed("seed") {
		seed, err := noise.ParseSeed(f.seed)
		if err != nil {
			return nil, err
		}
		p.Seed = seed
	}
	if changed("frequency") {
		p.Frequency = f.frequency
	}
	if changed("octaves") {
		p.Octaves = f.octaves
	}
	if changed("persistence") {
		p.Persistence = f.persistence
	}
	if changed("lacunarity") {
		p.Lacunarity = f.lacunarity
	}
	if changed("amplitude") {
		p.Amplitude = f.amplitude
	}
	if changed("interpolation") {
		p.Interpolation = noise.Interpolation(f.interpolation)
	}
	return &p, nil
}

func algorithmNames() string {
	algs := noise.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}
