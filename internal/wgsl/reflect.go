// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgsl extracts the entry points and the uniform parameter block
// from WGSL source so that parameters can be written by name.
//
// Source is parsed and lowered with naga; member offsets and the struct
// span are the ones naga computes, so @align and @size attributes are
// honored. Only scalar and vector members can be written, but any member
// type is reflected.
package wgsl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ErrNotStruct is returned when the uniform variable at group 0 binding 0
// is not a struct.
var ErrNotStruct = errors.New("wgsl: uniform is not a struct")

// Member is one field of the uniform block.
type Member struct {
	Name   string
	Type   string // e.g. "f32", "vec3<f32>" or "mat4x4<f32>"
	Offset uint32
	// Size is the byte size of the value, excluding @size padding.
	Size uint32

	scalar     string
	components int
}

// Scalar returns the component type of a scalar or vector member ("f32",
// "i32", "u32", ...). It is empty for matrices, arrays and structs.
func (m Member) Scalar() string { return m.scalar }

// Components returns the number of scalar components of a scalar or vector
// member, and 0 for any other type.
func (m Member) Components() int { return m.components }

// Block is the uniform buffer bound at one group and binding.
type Block struct {
	Var     string
	Struct  string
	Group   uint32
	Binding uint32
	Members []Member
	// Span is the struct size.
	Span uint32
	// Size is the buffer size in bytes, Span rounded up to 16.
	Size uint32
}

// Module is the reflected interface of one WGSL source.
type Module struct {
	Vertex   []string
	Fragment []string
	// Uniform is the block at @group(0) @binding(0), nil when absent.
	Uniform *Block
}

// Member looks up a uniform member by name.
func (m *Module) Member(name string) (Member, bool) {
	if m.Uniform == nil {
		return Member{}, false
	}
	for _, mem := range m.Uniform.Members {
		if mem.Name == name {
			return mem, true
		}
	}
	return Member{}, false
}

// HasEntryPoint reports whether the module declares name for the stage
// ("vertex" or "fragment").
func (m *Module) HasEntryPoint(stage, name string) bool {
	var list []string
	switch stage {
	case "vertex":
		list = m.Vertex
	case "fragment":
		list = m.Fragment
	}
	for _, ep := range list {
		if ep == name {
			return true
		}
	}
	return false
}

// Names returns the uniform member names in sorted order.
func (m *Module) Names() []string {
	if m.Uniform == nil {
		return nil
	}
	names := make([]string, 0, len(m.Uniform.Members))
	for _, mem := range m.Uniform.Members {
		names = append(names, mem.Name)
	}
	sort.Strings(names)
	return names
}

// Reflect parses src and returns its entry points and uniform block.
func Reflect(src string) (*Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	return fromIR(mod)
}

func fromIR(mod *ir.Module) (*Module, error) {
	m := &Module{}
	for _, ep := range mod.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			m.Vertex = append(m.Vertex, ep.Name)
		case ir.StageFragment:
			m.Fragment = append(m.Fragment, ep.Name)
		}
	}

	for _, gv := range mod.GlobalVariables {
		if gv.Space != ir.SpaceUniform || gv.Binding == nil {
			continue
		}
		if gv.Binding.Group != 0 || gv.Binding.Binding != 0 {
			continue
		}
		ty := mod.Types[gv.Type]
		st, ok := ty.Inner.(ir.StructType)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %s", ErrNotStruct, gv.Name, typeName(mod, gv.Type))
		}
		block := &Block{
			Var:     gv.Name,
			Struct:  ty.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Members: make([]Member, 0, len(st.Members)),
			Span:    st.Span,
			Size:    roundUp(st.Span, 16),
		}
		for _, sm := range st.Members {
			block.Members = append(block.Members, memberOf(mod, sm))
		}
		m.Uniform = block
		break
	}
	return m, nil
}

func memberOf(mod *ir.Module, sm ir.StructMember) Member {
	mem := Member{
		Name:   sm.Name,
		Type:   typeName(mod, sm.Type),
		Offset: sm.Offset,
		Size:   ir.TypeSize(mod, sm.Type),
	}
	switch t := mod.Types[sm.Type].Inner.(type) {
	case ir.ScalarType:
		mem.scalar, mem.components = scalarName(t), 1
	case ir.VectorType:
		mem.scalar, mem.components = scalarName(t.Scalar), int(t.Size)
	}
	return mem
}

// typeName spells a type the way WGSL does. Aliases are resolved.
func typeName(mod *ir.Module, h ir.TypeHandle) string {
	if int(h) >= len(mod.Types) {
		return "?"
	}
	ty := mod.Types[h]
	switch t := ty.Inner.(type) {
	case ir.ScalarType:
		return scalarName(t)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", t.Size, scalarName(t.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", t.Columns, t.Rows, scalarName(t.Scalar))
	case ir.ArrayType:
		if t.Size.Constant != nil {
			return fmt.Sprintf("array<%s, %d>", typeName(mod, t.Base), *t.Size.Constant)
		}
		return fmt.Sprintf("array<%s>", typeName(mod, t.Base))
	}
	if ty.Name != "" {
		return ty.Name
	}
	return fmt.Sprintf("%T", ty.Inner)
}

func scalarName(s ir.ScalarType) string {
	var prefix string
	switch s.Kind {
	case ir.ScalarFloat:
		prefix = "f"
	case ir.ScalarSint:
		prefix = "i"
	case ir.ScalarUint:
		prefix = "u"
	case ir.ScalarBool:
		return "bool"
	default:
		return "abstract"
	}
	return fmt.Sprintf("%s%d", prefix, int(s.Width)*8)
}

func roundUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}
