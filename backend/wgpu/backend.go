// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/noise"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend for standalone devices.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	noise.RegisterBackend(noise.BackendWGPU, func() noise.Backend {
		if _, ok := hal.GetBackend(gputypes.BackendVulkan); !ok {
			return nil
		}
		return New()
	})
}

// Backend opens noise surfaces on a HAL device.
//
// A Backend created by New opens its own device when the first surface is
// opened and destroys it when the last one is released. Backends created
// by NewShared or NewWithDevice never destroy the device.
//
// Backend is safe for concurrent use. Surfaces are not; noise.Generator
// serializes access to its surface.
type Backend struct {
	mu     sync.Mutex
	shared *device
	owned  *device
	refs   int
}

var _ noise.Backend = (*Backend)(nil)

// New returns a backend that opens its own Vulkan device on demand.
func New() *Backend {
	return &Backend{}
}

// NewWithDevice returns a backend that renders on an existing HAL device.
func NewWithDevice(d hal.Device, q hal.Queue) *Backend {
	return &Backend{shared: &device{device: d, queue: q, name: "external"}}
}

// NewShared returns a backend that renders on the device of provider.
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func NewShared(provider gpucontext.DeviceProvider) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProviderNotHAL
	}
	d, ok := hp.HalDevice().(hal.Device)
	if !ok || d == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHAL)
	}
	q, ok := hp.HalQueue().(hal.Queue)
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHAL)
	}
	noise.Logger().Info("wgpu: using shared device", "format", provider.SurfaceFormat())
	return NewWithDevice(d, q), nil
}

// Name returns noise.BackendWGPU.
func (b *Backend) Name() string {
	return noise.BackendWGPU
}

// Open creates a surface with no render target. Call Resize before
// drawing.
func (b *Backend) Open() (noise.Surface, error) {
	dev, err := b.acquire()
	if err != nil {
		return nil, err
	}
	s := &surface{backend: b, dev: dev}
	s.ctx = &renderContext{surface: s, dev: dev}
	return s, nil
}

// acquire returns the device for a new surface, opening the owned device
// on first use.
func (b *Backend) acquire() (*device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shared != nil {
		return b.shared, nil
	}
	if b.owned == nil {
		d, err := openDevice()
		if err != nil {
			return nil, err
		}
		b.owned = d
	}
	b.refs++
	return b.owned, nil
}

// release drops a surface's reference to dev.
func (b *Backend) release(dev *device) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dev != b.owned || b.owned == nil {
		return
	}
	b.refs--
	if b.refs == 0 {
		b.owned.destroy()
		b.owned = nil
	}
}
