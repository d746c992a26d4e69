// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu provides the GPU backend for noise using gogpu/wgpu.
//
// Importing the package registers the backend under noise.BackendWGPU:
//
//	import (
//	    "github.com/gogpu/noise"
//	    _ "github.com/gogpu/noise/backend/wgpu"
//	)
//
//	gen, err := noise.NewPerlin() // picks the "wgpu" backend
//
// # Architecture
//
// Each surface owns a single-sample RGBA8 texture that is the color
// attachment of a full-screen quad render pass. Shader stages are WGSL,
// compiled to SPIR-V by gogpu/naga so that diagnostics surface as compile
// errors. Linking reflects the uniform block at @group(0) @binding(0),
// creates the render pipeline and a uniform buffer, and parameters are
// written by name into a host copy of the block that is uploaded before
// each draw.
//
// Read-back copies the texture into a 256-byte aligned staging buffer,
// waits on a fence, then strips the row padding.
//
// # Device Sharing
//
// By default the backend opens its own Vulkan device on first use. To
// render on a device owned by a host application, use NewShared with a
// gpucontext.DeviceProvider that also exposes HalDevice() and HalQueue(),
// or NewWithDevice with HAL handles directly.
package wgpu
