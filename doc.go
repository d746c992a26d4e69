// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package noise generates procedural noise textures on the GPU.
//
// # Overview
//
// A generator owns a rendering surface, a context bound to it and one
// compiled shader program. Every call resolves a configuration, binds it
// into the program as named parameters, draws a full-screen quad and reads
// the result back. All per-pixel math happens in the WGSL fragment stage;
// this package only orchestrates.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/noise"
//		_ "github.com/gogpu/noise/backend/wgpu" // register the GPU backend
//	)
//
//	gen, err := noise.NewValue()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gen.Close()
//
//	img, err := gen.ImageData(noise.ValueConfig{
//		SharedConfig:  noise.SharedConfig{Width: 256, Height: 256, Octaves: 4},
//		Interpolation: noise.Smootherstep,
//	})
//
// # Outputs
//
// Three representations are available for every algorithm:
//   - ImageData: an *image.RGBA with row zero at the top
//   - DataURL: a "data:image/png;base64," string encoded by the backend
//   - RawData: width*height float32 values in [0, 1] taken from the red channel
//
// # Configuration
//
// Every field of SharedConfig is optional. A zero value means "use the
// default", and out-of-range values are treated the same way. Defaults are
// applied in three levels: explicit field, algorithm default (see
// WithDefaults), shared default. The seed may be AutoSeed, in which case it
// is derived from the current time.
//
// # Concurrency
//
// A generator serializes its calls; only one render is in flight at a time.
// Separate generators own separate GPU resources and may be used from
// different goroutines.
package noise

// Version is the current version of the library.
const Version = "0.1.0"
