// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/noise"
	"github.com/gogpu/noise/internal/wgsl"
	"github.com/gogpu/wgpu/hal"
)

// Entry point names every stage must declare.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// shader is one compiled WGSL stage.
type shader struct {
	stage   noise.Stage
	module  hal.ShaderModule
	reflect *wgsl.Module
}

func (s *shader) entryPoint() string {
	if s.stage == noise.StageVertex {
		return vertexEntryPoint
	}
	return fragmentEntryPoint
}

// compile reflects and compiles source. Any failure leaves s empty.
func (s *shader) compile(dev *device, source string) error {
	mod, err := wgsl.Reflect(source)
	if err != nil {
		return err
	}
	if !mod.HasEntryPoint(s.stage.String(), s.entryPoint()) {
		return fmt.Errorf("missing @%s fn %s", s.stage, s.entryPoint())
	}

	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return err
	}
	if len(spirvBytes)%4 != 0 {
		return fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}

	module, err := dev.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "noise_" + s.stage.String(),
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	s.module = module
	s.reflect = mod
	return nil
}

func (s *shader) destroy(dev *device) {
	if s.module != nil {
		dev.device.DestroyShaderModule(s.module)
		s.module = nil
	}
}

// program is a linked render pipeline with its uniform block.
type program struct {
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	block   *wgsl.Block
	members map[string]wgsl.Member
	data    []byte
}

// link creates the pipeline from vs and fs. On failure every object
// created so far is destroyed.
func (p *program) link(dev *device, vs, fs *shader) (err error) {
	if vs.module == nil || fs.module == nil {
		return errors.New("stages must be compiled before linking")
	}
	if vs.stage != noise.StageVertex || fs.stage != noise.StageFragment {
		return fmt.Errorf("stage mismatch: got %v and %v", vs.stage, fs.stage)
	}
	block, err := uniformBlock(vs.reflect, fs.reflect)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			p.destroy(dev)
		}
	}()

	var bindLayouts []hal.BindGroupLayout
	if block != nil {
		p.bindLayout, err = dev.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: "noise_params_layout",
			Entries: []gputypes.BindGroupLayoutEntry{{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			}},
		})
		if err != nil {
			return fmt.Errorf("create bind group layout: %w", err)
		}
		bindLayouts = append(bindLayouts, p.bindLayout)
	}

	p.pipeLayout, err = dev.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "noise_pipe_layout",
		BindGroupLayouts: bindLayouts,
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	p.pipeline, err = dev.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "noise_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     vs.module,
			EntryPoint: vertexEntryPoint,
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: 8,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{{
					Format:         gputypes.VertexFormatFloat32x2,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     fs.module,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    textureFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}

	if block == nil {
		return nil
	}

	size := uint64(block.Size)
	p.uniformBuf, err = dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "noise_params",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	p.bindGroup, err = dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "noise_params_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{{
			Binding:  0,
			Resource: gputypes.BufferBinding{Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: size},
		}},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}

	p.block = block
	p.data = make([]byte, block.Size)
	p.members = make(map[string]wgsl.Member, len(block.Members))
	for _, m := range block.Members {
		p.members[m.Name] = m
	}
	return nil
}

// uniformBlock returns the block both stages agree on. A stage without a
// block accepts the other's.
func uniformBlock(vs, fs *wgsl.Module) (*wgsl.Block, error) {
	switch {
	case vs.Uniform == nil:
		return fs.Uniform, nil
	case fs.Uniform == nil:
		return vs.Uniform, nil
	case vs.Uniform.Size != fs.Uniform.Size || !slices.Equal(vs.Uniform.Members, fs.Uniform.Members):
		return nil, fmt.Errorf("uniform block mismatch: vertex declares %s, fragment declares %s",
			vs.Uniform.Struct, fs.Uniform.Struct)
	default:
		return fs.Uniform, nil
	}
}

// write stores v at the member's offset in the host copy of the block.
func (p *program) write(m wgsl.Member, v noise.Value) error {
	dst := p.data[m.Offset : m.Offset+m.Size]
	switch m.Scalar() {
	case "f32":
		if v.Kind == noise.KindInt || v.Kind.Components() != m.Components() {
			return fmt.Errorf("%w: %s is %s, got %v", ErrTypeMismatch, m.Name, m.Type, v.Kind)
		}
		for i := 0; i < m.Components(); i++ {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v.F[i]))
		}
	case "i32", "u32":
		if v.Kind != noise.KindInt || m.Components() != 1 {
			return fmt.Errorf("%w: %s is %s, got %v", ErrTypeMismatch, m.Name, m.Type, v.Kind)
		}
		binary.LittleEndian.PutUint32(dst, uint32(v.I)) //nolint:gosec // two's complement bit pattern
	default:
		return fmt.Errorf("%w: %s has unsupported type %s", ErrTypeMismatch, m.Name, m.Type)
	}
	return nil
}

func (p *program) destroy(dev *device) {
	if p.bindGroup != nil {
		dev.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		dev.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		dev.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		dev.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		dev.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	p.block = nil
	p.members = nil
	p.data = nil
}
