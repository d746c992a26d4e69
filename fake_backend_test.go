// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"sync/atomic"
)

// fakeBackend is an in-memory Backend. DrawQuad fills the surface with a
// deterministic pattern derived from the bound parameters, stored bottom
// row first like a real GPU read-back.
type fakeBackend struct {
	openErr     error
	compileLogs map[Stage]string
	linkLog     string
	encodeErr   error
	// declared limits the names a program reports; nil declares all.
	declared map[string]bool

	mu           sync.Mutex
	opened       int
	liveSurfaces int
	liveShaders  int
	livePrograms int
	surfaces     []*fakeSurface
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Open() (Surface, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened++
	b.liveSurfaces++
	s := &fakeSurface{backend: b}
	s.ctx = &fakeContext{backend: b, surface: s}
	b.surfaces = append(b.surfaces, s)
	return s, nil
}

func (b *fakeBackend) counts() (surfaces, shaders, programs int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liveSurfaces, b.liveShaders, b.livePrograms
}

func (b *fakeBackend) lastSurface() *fakeSurface {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.surfaces) == 0 {
		return nil
	}
	return b.surfaces[len(b.surfaces)-1]
}

type fakeSurface struct {
	backend  *fakeBackend
	ctx      *fakeContext
	width    int
	height   int
	pixels   []byte
	released bool
}

func (s *fakeSurface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("fake: invalid size %dx%d", width, height)
	}
	s.width, s.height = width, height
	s.pixels = make([]byte, width*height*bytesPerPixel)
	return nil
}

func (s *fakeSurface) Size() (int, int) { return s.width, s.height }

func (s *fakeSurface) Context() Context { return s.ctx }

// EncodePNG encodes the surface top row first.
func (s *fakeSurface) EncodePNG() ([]byte, error) {
	if s.backend.encodeErr != nil {
		return nil, s.backend.encodeErr
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	stride := s.width * bytesPerPixel
	for y := 0; y < s.height; y++ {
		src := (s.height - 1 - y) * stride
		copy(img.Pix[y*img.Stride:], s.pixels[src:src+stride])
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *fakeSurface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.backend.mu.Lock()
	s.backend.liveSurfaces--
	s.backend.mu.Unlock()
}

type fakeShader struct {
	stage   Stage
	deleted bool
}

type fakeProgram struct {
	params  Parameters
	deleted bool
}

type fakeContext struct {
	backend *fakeBackend
	surface *fakeSurface
	active  *fakeProgram

	draws      int
	inflight   atomic.Int32
	overlapped atomic.Bool
}

func (c *fakeContext) CreateShader(stage Stage) (Shader, error) {
	c.backend.mu.Lock()
	c.backend.liveShaders++
	c.backend.mu.Unlock()
	return &fakeShader{stage: stage}, nil
}

// CompileShader accepts sources that declare the entry point of their stage.
func (c *fakeContext) CompileShader(sh Shader, source string) error {
	s := sh.(*fakeShader)
	if msg := c.backend.compileLogs[s.stage]; msg != "" {
		return errors.New(msg)
	}
	want := "@vertex"
	if s.stage == StageFragment {
		want = "@fragment"
	}
	if !strings.Contains(source, want) {
		return fmt.Errorf("no %s entry point", want)
	}
	return nil
}

func (c *fakeContext) DeleteShader(sh Shader) {
	s, ok := sh.(*fakeShader)
	if !ok || s == nil || s.deleted {
		return
	}
	s.deleted = true
	c.backend.mu.Lock()
	c.backend.liveShaders--
	c.backend.mu.Unlock()
}

func (c *fakeContext) CreateProgram() (Program, error) {
	c.backend.mu.Lock()
	c.backend.livePrograms++
	c.backend.mu.Unlock()
	return &fakeProgram{params: Parameters{}}, nil
}

func (c *fakeContext) LinkProgram(_ Program, _, _ Shader) error {
	if c.backend.linkLog != "" {
		return errors.New(c.backend.linkLog)
	}
	return nil
}

func (c *fakeContext) DeleteProgram(p Program) {
	fp, ok := p.(*fakeProgram)
	if !ok || fp == nil || fp.deleted {
		return
	}
	fp.deleted = true
	c.backend.mu.Lock()
	c.backend.livePrograms--
	c.backend.mu.Unlock()
}

func (c *fakeContext) UseProgram(p Program) {
	c.active = p.(*fakeProgram)
}

func (c *fakeContext) UniformLocation(_ Program, name string) (Location, bool) {
	if c.backend.declared != nil && !c.backend.declared[name] {
		return nil, false
	}
	return name, true
}

func (c *fakeContext) SetUniform(loc Location, v Value) error {
	if c.active == nil {
		return errors.New("fake: no active program")
	}
	c.active.params[loc.(string)] = v
	return nil
}

func (c *fakeContext) DrawQuad() error {
	if c.inflight.Add(1) > 1 {
		c.overlapped.Store(true)
	}
	defer c.inflight.Add(-1)

	if c.active == nil {
		return errors.New("fake: no active program")
	}
	c.draws++
	s := c.surface
	seed := int64(c.active.params[ParamSeed].F[0])
	interp := c.active.params[ParamInterpolation].I
	for row := 0; row < s.height; row++ {
		y := s.height - 1 - row
		for x := 0; x < s.width; x++ {
			v := fakeValue(seed, x, y)
			i := (row*s.width + x) * bytesPerPixel
			s.pixels[i] = v
			s.pixels[i+1] = 255 - v
			s.pixels[i+2] = byte(interp * 50)
			s.pixels[i+3] = 255
		}
	}
	return nil
}

func (c *fakeContext) ReadPixels(dst []byte) error {
	if len(dst) < len(c.surface.pixels) {
		return fmt.Errorf("fake: buffer too small: %d < %d", len(dst), len(c.surface.pixels))
	}
	copy(dst, c.surface.pixels)
	return nil
}

// bound returns the parameters last pushed into the active program.
func (c *fakeContext) bound() Parameters {
	if c.active == nil {
		return nil
	}
	return c.active.params
}

// fakeValue is the red channel the fake draws at (x, y), y counted from
// the top edge.
func fakeValue(seed int64, x, y int) byte {
	return byte(seed*31 + int64(x)*7 + int64(y)*13)
}

// fakeColor is the full pixel the fake draws at (x, y).
func fakeColor(seed int64, interp int32, x, y int) color.RGBA {
	v := fakeValue(seed, x, y)
	return color.RGBA{R: v, G: 255 - v, B: byte(interp * 50), A: 255}
}
