// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"encoding/base64"
	"fmt"
	"image"
)

// DataURLPrefix starts every string returned by DataURL.
const DataURLPrefix = "data:image/png;base64,"

// bytesPerPixel is the size of one RGBA8 pixel.
const bytesPerPixel = 4

// drawAndRead draws the quad and reads the surface back in backend order
// (bottom row first).
func drawAndRead(r *resources, width, height int) ([]byte, error) {
	if err := r.ctx.DrawQuad(); err != nil {
		return nil, fmt.Errorf("noise: draw: %w", err)
	}
	pixels := make([]byte, width*height*bytesPerPixel)
	if err := r.ctx.ReadPixels(pixels); err != nil {
		return nil, fmt.Errorf("noise: read pixels: %w", err)
	}
	return pixels, nil
}

// toImage draws and returns the pixels with row zero at the top.
func toImage(r *resources, width, height int) (*image.RGBA, error) {
	pixels, err := drawAndRead(r, width, height)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stride := width * bytesPerPixel
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * stride
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], pixels[src:src+stride])
	}
	return img, nil
}

// toRawArray draws and returns the red channel normalized to [0, 1], row
// major, first element at the top-left pixel.
func toRawArray(r *resources, width, height int) ([]float32, error) {
	pixels, err := drawAndRead(r, width, height)
	if err != nil {
		return nil, err
	}

	raw := make([]float32, width*height)
	for y := 0; y < height; y++ {
		srcRow := (height - 1 - y) * width
		for x := 0; x < width; x++ {
			raw[y*width+x] = float32(pixels[(srcRow+x)*bytesPerPixel]) / 255
		}
	}
	return raw, nil
}

// toDataURL draws and lets the surface encode itself. There is no host-side
// read-back or row flip on this path.
func toDataURL(r *resources) (string, error) {
	if err := r.ctx.DrawQuad(); err != nil {
		return "", fmt.Errorf("noise: draw: %w", err)
	}
	blob, err := r.surface.EncodePNG()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(blob), nil
}
