// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"fmt"
	"log/slog"
)

// bind resizes the surface to the resolved dimensions, activates the program
// and pushes params into it by name. Names the program does not declare are
// skipped, so shaders may use any subset of the shared parameters.
func bind(r *resources, p Params, params Parameters, log *slog.Logger) error {
	if err := r.surface.Resize(p.Width, p.Height); err != nil {
		return fmt.Errorf("noise: resize surface to %dx%d: %w", p.Width, p.Height, err)
	}
	r.ctx.UseProgram(r.program)

	for _, name := range params.Names() {
		loc, ok := r.ctx.UniformLocation(r.program, name)
		if !ok {
			log.Debug("noise: parameter not declared by program", "name", name)
			continue
		}
		if err := r.ctx.SetUniform(loc, params[name]); err != nil {
			return fmt.Errorf("noise: set parameter %s: %w", name, err)
		}
	}
	return nil
}
