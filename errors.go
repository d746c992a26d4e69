// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"errors"
	"fmt"
)

// Common generator errors.
var (
	// ErrBackendUnavailable is returned when no rendering backend can be
	// obtained or the backend fails to provide a surface.
	ErrBackendUnavailable = errors.New("noise: rendering backend not available")

	// ErrCompile is wrapped by *ShaderError when a shader stage fails to compile.
	ErrCompile = errors.New("noise: shader compilation failed")

	// ErrLink is wrapped by *ShaderError when the program fails to link.
	ErrLink = errors.New("noise: program link failed")

	// ErrEncode is returned when the backend cannot encode the surface.
	// The generator remains usable.
	ErrEncode = errors.New("noise: surface encode failed")

	// ErrClosed is returned by calls on a generator after Close.
	ErrClosed = errors.New("noise: generator is closed")

	// ErrUnknownAlgorithm is returned for an Algorithm outside the supported set.
	ErrUnknownAlgorithm = errors.New("noise: unknown algorithm")
)

// ShaderError reports a compilation or link failure together with the
// diagnostic log produced by the backend.
type ShaderError struct {
	// Stage is the failed stage. It is StageProgram for link failures.
	Stage Stage

	// Log is the backend's diagnostic text.
	Log string

	kind error
}

// Error implements the error interface.
func (e *ShaderError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("%v (%s)", e.kind, e.Stage)
	}
	return fmt.Sprintf("%v (%s): %s", e.kind, e.Stage, e.Log)
}

// Unwrap returns ErrCompile or ErrLink.
func (e *ShaderError) Unwrap() error {
	return e.kind
}

func compileError(stage Stage, log string) *ShaderError {
	return &ShaderError{Stage: stage, Log: log, kind: ErrCompile}
}

func linkError(log string) *ShaderError {
	return &ShaderError{Stage: StageProgram, Log: log, kind: ErrLink}
}
