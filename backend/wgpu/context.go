// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/noise"
	"github.com/gogpu/noise/internal/wgsl"
	"github.com/gogpu/wgpu/hal"
)

// quadVertices is the full-screen triangle strip in clip space.
var quadVertices = [8]float32{-1, -1, 1, -1, -1, 1, 1, 1}

// renderContext implements noise.Context on a HAL device.
type renderContext struct {
	surface *surface
	dev     *device

	active    *program
	vertexBuf hal.Buffer
}

var _ noise.Context = (*renderContext)(nil)

// location addresses one member of a program's uniform block.
type location struct {
	prog   *program
	member wgsl.Member
}

// CreateShader allocates an empty shader object for the stage.
func (c *renderContext) CreateShader(stage noise.Stage) (noise.Shader, error) {
	if stage != noise.StageVertex && stage != noise.StageFragment {
		return nil, fmt.Errorf("wgpu: cannot create shader for stage %v", stage)
	}
	return &shader{stage: stage}, nil
}

// CompileShader compiles WGSL into sh. The returned error message is the
// diagnostic log.
func (c *renderContext) CompileShader(sh noise.Shader, source string) error {
	s, ok := sh.(*shader)
	if !ok || s == nil {
		return fmt.Errorf("wgpu: not a shader: %T", sh)
	}
	return s.compile(c.dev, source)
}

// DeleteShader destroys the shader module. Nil handles are ignored.
func (c *renderContext) DeleteShader(sh noise.Shader) {
	if s, ok := sh.(*shader); ok && s != nil {
		s.destroy(c.dev)
	}
}

// CreateProgram allocates an empty program object.
func (c *renderContext) CreateProgram() (noise.Program, error) {
	return &program{}, nil
}

// LinkProgram builds the render pipeline from the two stages.
func (c *renderContext) LinkProgram(p noise.Program, vertex, fragment noise.Shader) error {
	prog, ok := p.(*program)
	if !ok || prog == nil {
		return fmt.Errorf("wgpu: not a program: %T", p)
	}
	vs, ok := vertex.(*shader)
	if !ok || vs == nil {
		return fmt.Errorf("wgpu: vertex is not a shader: %T", vertex)
	}
	fs, ok := fragment.(*shader)
	if !ok || fs == nil {
		return fmt.Errorf("wgpu: fragment is not a shader: %T", fragment)
	}
	if err := c.ensureVertexBuffer(); err != nil {
		return err
	}
	return prog.link(c.dev, vs, fs)
}

// DeleteProgram destroys the pipeline and its buffers. Nil handles are
// ignored.
func (c *renderContext) DeleteProgram(p noise.Program) {
	prog, ok := p.(*program)
	if !ok || prog == nil {
		return
	}
	if c.active == prog {
		c.active = nil
	}
	prog.destroy(c.dev)
}

// UseProgram makes p the active program.
func (c *renderContext) UseProgram(p noise.Program) {
	prog, _ := p.(*program)
	c.active = prog
}

// UniformLocation looks up name in the uniform block of p.
func (c *renderContext) UniformLocation(p noise.Program, name string) (noise.Location, bool) {
	prog, ok := p.(*program)
	if !ok || prog == nil || prog.block == nil {
		return nil, false
	}
	member, ok := prog.members[name]
	if !ok {
		return nil, false
	}
	return &location{prog: prog, member: member}, true
}

// SetUniform writes v into the host copy of the uniform block. The copy
// is uploaded by the next DrawQuad.
func (c *renderContext) SetUniform(loc noise.Location, v noise.Value) error {
	l, ok := loc.(*location)
	if !ok || l == nil {
		return fmt.Errorf("wgpu: not a location: %T", loc)
	}
	return l.prog.write(l.member, v)
}

// DrawQuad renders the full-screen quad with the active program.
func (c *renderContext) DrawQuad() error {
	s := c.surface
	if s.released {
		return ErrReleased
	}
	if s.view == nil {
		return ErrNoTarget
	}
	prog := c.active
	if prog == nil || prog.pipeline == nil {
		return ErrNoProgram
	}

	if prog.uniformBuf != nil {
		c.dev.queue.WriteBuffer(prog.uniformBuf, 0, prog.data)
	}

	encoder, err := c.dev.beginEncoding("noise_draw")
	if err != nil {
		return err
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "noise_quad",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(prog.pipeline)
	if prog.bindGroup != nil {
		rp.SetBindGroup(0, prog.bindGroup, nil)
	}
	rp.SetVertexBuffer(0, c.vertexBuf, 0)
	rp.Draw(4, 1, 0, 0)
	rp.End()

	return c.dev.submit(encoder)
}

// ReadPixels copies the target into dst as RGBA8 rows ordered from the
// bottom edge up.
func (c *renderContext) ReadPixels(dst []byte) error {
	s := c.surface
	need := s.width * s.height * bytesPerPixel
	if len(dst) < need {
		return fmt.Errorf("wgpu: read pixels: buffer holds %d bytes, need %d", len(dst), need)
	}
	pixels, err := s.readback()
	if err != nil {
		return err
	}
	stride := s.width * bytesPerPixel
	for y := 0; y < s.height; y++ {
		src := y * stride
		dstOff := (s.height - 1 - y) * stride
		copy(dst[dstOff:dstOff+stride], pixels[src:src+stride])
	}
	return nil
}

// ensureVertexBuffer uploads the quad once per context.
func (c *renderContext) ensureVertexBuffer() error {
	if c.vertexBuf != nil {
		return nil
	}
	data := make([]byte, len(quadVertices)*4)
	for i, v := range quadVertices {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	buf, err := c.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "noise_quad_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	c.dev.queue.WriteBuffer(buf, 0, data)
	c.vertexBuf = buf
	return nil
}

// destroy releases context-owned GPU objects. Programs are deleted by
// their owner before the surface is released.
func (c *renderContext) destroy() {
	c.active = nil
	if c.vertexBuf != nil {
		c.dev.device.DestroyBuffer(c.vertexBuf)
		c.vertexBuf = nil
	}
}
