// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"sort"
	"sync"
)

// Stage identifies a shader stage.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
	// StageProgram denotes the linked program in link diagnostics.
	StageProgram
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageProgram:
		return "program"
	default:
		return "unknown"
	}
}

// Shader is a backend handle for one shader stage.
type Shader any

// Program is a backend handle for a linked program.
type Program any

// Location is a backend handle for a named parameter inside a program.
type Location any

// Backend is a rendering capability able to open surfaces.
//
// Backends register themselves via RegisterBackend, usually from an init
// function, and are selected by WithBackendName or DefaultBackend.
type Backend interface {
	// Name returns the backend identifier (e.g. "wgpu").
	Name() string

	// Open acquires a new surface and a context bound to it.
	Open() (Surface, error)
}

// Surface is the pixel target a draw call renders into.
type Surface interface {
	// Resize sets the surface dimensions. Contents are undefined afterwards.
	Resize(width, height int) error

	// Size returns the current dimensions.
	Size() (width, height int)

	// Context returns the context bound to this surface.
	Context() Context

	// EncodePNG encodes the current contents as PNG with row zero at the
	// top. It blocks until the backend has produced the blob.
	EncodePNG() ([]byte, error)

	// Release destroys the surface and its context.
	Release()
}

// Context issues compilation, parameter, draw and read-back commands
// against its surface.
type Context interface {
	// CreateShader allocates an empty shader object for the stage.
	CreateShader(stage Stage) (Shader, error)

	// CompileShader compiles source into sh. A non-nil error carries the
	// backend's diagnostic log as its message.
	CompileShader(sh Shader, source string) error

	// DeleteShader releases a shader object. Nil handles are ignored.
	DeleteShader(sh Shader)

	// CreateProgram allocates an empty program object.
	CreateProgram() (Program, error)

	// LinkProgram links the vertex and fragment shaders into p. A non-nil
	// error carries the backend's diagnostic log as its message.
	LinkProgram(p Program, vertex, fragment Shader) error

	// DeleteProgram releases a program. Nil handles are ignored.
	DeleteProgram(p Program)

	// UseProgram makes p the active program.
	UseProgram(p Program)

	// UniformLocation looks up a named parameter in p. ok is false when
	// the program does not declare the name.
	UniformLocation(p Program, name string) (loc Location, ok bool)

	// SetUniform writes v to loc in the active program.
	SetUniform(loc Location, v Value) error

	// DrawQuad draws a four-vertex triangle strip covering the whole surface
	// with the active program.
	DrawQuad() error

	// ReadPixels copies the surface into dst as RGBA8. Rows are ordered
	// from the bottom edge up. len(dst) must be at least width*height*4.
	ReadPixels(dst []byte) error
}

// BackendFactory creates a new backend instance. It returns nil when the
// backend cannot run on this host.
type BackendFactory func() Backend

// BackendWGPU is the name of the GPU backend in backend/wgpu.
const BackendWGPU = "wgpu"

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	// Priority order for DefaultBackend (first available wins).
	backendPriority = []string{BackendWGPU}
)

// RegisterBackend registers a backend factory under name, replacing any
// previous registration.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// UnregisterBackend removes a backend from the registry.
// This is useful for testing.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// AvailableBackends returns the registered backend names in sorted order.
func AvailableBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetBackend returns a backend instance by name, or nil if the name is not
// registered or the factory cannot provide one.
func GetBackend(name string) Backend {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// DefaultBackend returns the best available backend based on priority,
// falling back to any registered backend in name order. Returns nil if no
// backend is available.
func DefaultBackend() Backend {
	for _, name := range backendPriority {
		if b := GetBackend(name); b != nil {
			return b
		}
	}
	for _, name := range AvailableBackends() {
		if b := GetBackend(name); b != nil {
			return b
		}
	}
	return nil
}
