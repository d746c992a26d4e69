// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "errors"

// Backend errors.
var (
	// ErrNoAdapter is returned when no GPU adapter can be opened.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter available")

	// ErrProviderNotHAL is returned by NewShared when the provider does not
	// expose HAL device and queue handles.
	ErrProviderNotHAL = errors.New("wgpu: device provider does not expose HAL types")

	// ErrReleased is returned when using a released surface.
	ErrReleased = errors.New("wgpu: surface has been released")

	// ErrNoTarget is returned when drawing or reading before Resize.
	ErrNoTarget = errors.New("wgpu: surface has no render target")

	// ErrInvalidSize is returned by Resize for dimensions outside the
	// supported texture range.
	ErrInvalidSize = errors.New("wgpu: invalid surface size")

	// ErrNoProgram is returned by DrawQuad without an active program.
	ErrNoProgram = errors.New("wgpu: no active program")

	// ErrTypeMismatch is returned when a parameter value does not match the
	// type declared in the shader.
	ErrTypeMismatch = errors.New("wgpu: parameter type mismatch")

	// ErrGPUTimeout is returned when the device does not signal completion.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)
