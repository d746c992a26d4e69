// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"fmt"
	"log/slog"
)

// resources owns the surface, context and linked program of one generator.
type resources struct {
	surface Surface
	ctx     Context
	program Program
}

// setupResources opens a surface on b and builds the program from the two
// stage sources. On failure nothing is left allocated: a failed stage is
// deleted before the error propagates, a failed link deletes the program
// and both stages, and the surface is released.
func setupResources(b Backend, vertexSource, fragmentSource string, log *slog.Logger) (*resources, error) {
	surface, err := b.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, b.Name(), err)
	}
	ctx := surface.Context()
	if ctx == nil {
		surface.Release()
		return nil, fmt.Errorf("%w: %s: surface has no context", ErrBackendUnavailable, b.Name())
	}

	program, err := buildProgram(ctx, vertexSource, fragmentSource)
	if err != nil {
		surface.Release()
		return nil, err
	}

	log.Info("noise: program linked", "backend", b.Name())
	return &resources{surface: surface, ctx: ctx, program: program}, nil
}

// buildProgram compiles both stages and links them. The compiled stages are
// deleted once the program is linked; only the program is returned.
func buildProgram(ctx Context, vertexSource, fragmentSource string) (Program, error) {
	vs, err := compileStage(ctx, StageVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(ctx, StageFragment, fragmentSource)
	if err != nil {
		ctx.DeleteShader(vs)
		return nil, err
	}

	program, err := ctx.CreateProgram()
	if err != nil {
		ctx.DeleteShader(fs)
		ctx.DeleteShader(vs)
		return nil, linkError(err.Error())
	}
	if err := ctx.LinkProgram(program, vs, fs); err != nil {
		ctx.DeleteProgram(program)
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		return nil, linkError(err.Error())
	}

	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)
	return program, nil
}

// compileStage creates and compiles one stage, deleting it on failure.
func compileStage(ctx Context, stage Stage, source string) (Shader, error) {
	sh, err := ctx.CreateShader(stage)
	if err != nil {
		return nil, compileError(stage, err.Error())
	}
	if err := ctx.CompileShader(sh, source); err != nil {
		ctx.DeleteShader(sh)
		return nil, compileError(stage, err.Error())
	}
	return sh, nil
}

// release deletes the program and releases the surface. Safe to call
// multiple times.
func (r *resources) release() {
	if r.program != nil {
		r.ctx.DeleteProgram(r.program)
		r.program = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	r.ctx = nil
}
