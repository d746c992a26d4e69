// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	_ "embed"
)

// Embedded WGSL sources. Every algorithm shares the quad vertex stage.
//
// Fragment stages read their parameters from a uniform block at
// @group(0) @binding(0) whose member names follow the Param* constants.

//go:embed shaders/quad.wgsl
var quadVertexSource string

//go:embed shaders/value.wgsl
var valueFragmentSource string

//go:embed shaders/simplex.wgsl
var simplexFragmentSource string

//go:embed shaders/perlin.wgsl
var perlinFragmentSource string

// QuadVertexSource returns the vertex stage used by the bundled algorithms.
// It maps a two-component position at location 0 directly to clip space.
func QuadVertexSource() string { return quadVertexSource }
