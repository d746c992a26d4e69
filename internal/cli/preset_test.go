// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/noise"
)

const testPreset = `
algorithm = "value"
backend = "wgpu"
width = 256
height = 128
seed = "auto"
octaves = 3
interpolation = "smootherstep"

[defaults]
frequency = 2.5
seed = 99

[server]
addr = "127.0.0.1:9000"
cache_ttl = "90m"
cache_bytes = 1024
`

func TestLoadPreset(t *testing.T) {
	p, err := loadPreset(writeFile(t, "preset.toml", testPreset))
	if err != nil {
		t.Fatalf("loadPreset: %v", err)
	}

	if p.Algorithm != "value" || p.Backend != "wgpu" {
		t.Errorf("algorithm/backend = %q/%q", p.Algorithm, p.Backend)
	}
	if p.Width != 256 || p.Height != 128 || p.Octaves != 3 {
		t.Errorf("shared = %+v", p.SharedConfig)
	}
	if !p.Seed.IsAuto() {
		t.Errorf("seed = %v, want auto", p.Seed)
	}
	if p.Interpolation != noise.Smootherstep {
		t.Errorf("interpolation = %q", p.Interpolation)
	}
	if v, ok := p.Defaults.Seed.Value(); !ok || v != 99 || p.Defaults.Frequency != 2.5 {
		t.Errorf("defaults = %+v", p.Defaults)
	}
	if p.Server.Addr != "127.0.0.1:9000" || p.Server.CacheTTL != 90*time.Minute || p.Server.CacheBytes != 1024 {
		t.Errorf("server = %+v", p.Server)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "algorithm = \"value\"\noctave = 4\n", "unknown keys: octave"},
		{"float seed", "seed = 1.5\n", "seed"},
		{"syntax", "width = \n", "preset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadPreset(writeFile(t, "preset.toml", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestFlagsOverridePreset(t *testing.T) {
	c, f := newTestCLI(t)
	path := writeFile(t, "preset.toml", testPreset)

	_, err := execute(t, c, "dataurl", "perlin", "--config", path, "--width", "8", "--seed", "5")
	if err != nil {
		t.Fatalf("dataurl: %v", err)
	}
	if len(f.textures) != 1 {
		t.Fatalf("created %d generators", len(f.textures))
	}
	tex := f.textures[0]
	if tex.alg != noise.AlgorithmPerlin {
		t.Errorf("algorithm = %v, want perlin from args", tex.alg)
	}
	cfg := tex.last
	if cfg.Width != 8 || cfg.Height != 128 || cfg.Octaves != 3 {
		t.Errorf("config = %+v, want width from flag and the rest from preset", cfg.SharedConfig)
	}
	if v, ok := cfg.Seed.Value(); !ok || v != 5 {
		t.Errorf("seed = %v, want 5 from flag", cfg.Seed)
	}
}

func TestPresetSuppliesAlgorithm(t *testing.T) {
	c, f := newTestCLI(t)
	path := writeFile(t, "preset.toml", testPreset)

	if _, err := execute(t, c, "dataurl", "--config", path); err != nil {
		t.Fatalf("dataurl: %v", err)
	}
	if f.textures[0].alg != noise.AlgorithmValue {
		t.Errorf("algorithm = %v, want value from preset", f.textures[0].alg)
	}
}

func TestServeOptionsResolve(t *testing.T) {
	path := writeFile(t, "preset.toml", testPreset)
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, p *Preset)
	}{
		{"flag defaults without preset", nil, func(t *testing.T, p *Preset) {
			if p.Server.Addr != defaultAddr || p.Server.CacheBytes != defaultCacheBytes {
				t.Errorf("server = %+v", p.Server)
			}
		}},
		{"preset beats flag defaults", []string{"--config", path}, func(t *testing.T, p *Preset) {
			if p.Server.Addr != "127.0.0.1:9000" || p.Server.CacheTTL != 90*time.Minute {
				t.Errorf("server = %+v", p.Server)
			}
			if p.Server.MaxDimension == 0 {
				t.Error("max dimension not defaulted")
			}
		}},
		{"changed flags beat preset", []string{"--config", path, "--cache-bytes", "0", "--addr", ":1"}, func(t *testing.T, p *Preset) {
			if p.Server.CacheBytes != 0 || p.Server.Addr != ":1" {
				t.Errorf("server = %+v", p.Server)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "serve"}
			var o serveOpts
			o.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			p, err := o.resolve(cmd)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			tt.check(t, p)
		})
	}
}
