// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/noise"
	"github.com/gogpu/wgpu/hal"
)

const (
	// textureFormat is the color format of every surface.
	textureFormat = gputypes.TextureFormatRGBA8Unorm

	// maxTextureDimension is the WebGPU default limit for 2D textures.
	maxTextureDimension = 8192

	// copyPitchAlignment is the row alignment required for texture copies.
	copyPitchAlignment = 256

	bytesPerPixel = 4
)

// surface is a render target texture plus the context bound to it.
type surface struct {
	backend *Backend
	dev     *device
	ctx     *renderContext

	width  int
	height int
	tex    hal.Texture
	view   hal.TextureView

	released bool
}

var _ noise.Surface = (*surface)(nil)

// Resize recreates the render target at the new size. Resizing to the
// current size keeps the existing texture.
func (s *surface) Resize(width, height int) error {
	if s.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 || width > maxTextureDimension || height > maxTextureDimension {
		return fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidSize, width, height, maxTextureDimension)
	}
	if s.tex != nil && s.width == width && s.height == height {
		return nil
	}
	s.destroyTarget()

	tex, err := s.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "noise_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // bounded by maxTextureDimension
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	view, err := s.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "noise_target_view",
		Format:        textureFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.dev.device.DestroyTexture(tex)
		return fmt.Errorf("create target view: %w", err)
	}

	s.tex, s.view = tex, view
	s.width, s.height = width, height
	noise.Logger().Debug("wgpu: surface resized", "width", width, "height", height)
	return nil
}

// Size returns the current dimensions.
func (s *surface) Size() (int, int) {
	return s.width, s.height
}

// Context returns the context bound to this surface.
func (s *surface) Context() noise.Context {
	return s.ctx
}

// EncodePNG reads the target back and encodes it with row zero at the top.
func (s *surface) EncodePNG() ([]byte, error) {
	pixels, err := s.readback()
	if err != nil {
		return nil, err
	}
	img := &image.RGBA{
		Pix:    pixels,
		Stride: s.width * bytesPerPixel,
		Rect:   image.Rect(0, 0, s.width, s.height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Release destroys the context resources, the target and, for owned
// devices, drops the surface's device reference.
func (s *surface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.ctx.destroy()
	s.destroyTarget()
	s.backend.release(s.dev)
}

func (s *surface) destroyTarget() {
	if s.view != nil {
		s.dev.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		s.dev.device.DestroyTexture(s.tex)
		s.tex = nil
	}
	s.width, s.height = 0, 0
}

// readback copies the target into a staging buffer and returns tightly
// packed RGBA rows, top row first.
func (s *surface) readback() ([]byte, error) {
	if s.released {
		return nil, ErrReleased
	}
	if s.tex == nil {
		return nil, ErrNoTarget
	}
	w, h := uint32(s.width), uint32(s.height) //nolint:gosec // bounded by maxTextureDimension

	bytesPerRow := w * bytesPerPixel
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingBufSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := s.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "noise_staging",
		Size:  stagingBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer s.dev.device.DestroyBuffer(stagingBuf)

	encoder, err := s.dev.beginEncoding("noise_readback")
	if err != nil {
		return nil, err
	}

	// The target leaves the render pass in attachment layout; copies need
	// it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(s.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	if err := s.dev.submit(encoder); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingBufSize)
	if err := s.dev.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	if alignedBytesPerRow == bytesPerRow {
		return readback, nil
	}

	tight := make([]byte, uint64(bytesPerRow)*uint64(h))
	for row := uint32(0); row < h; row++ {
		srcOff := int(row) * int(alignedBytesPerRow)
		dstOff := int(row) * int(bytesPerRow)
		copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
	}
	return tight, nil
}
