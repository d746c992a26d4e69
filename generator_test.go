// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestValue(t *testing.T, fb *fakeBackend, opts ...Option) *Generator[ValueConfig] {
	t.Helper()
	g, err := NewValue(append([]Option{WithBackend(fb)}, opts...)...)
	if err != nil {
		t.Fatalf("NewValue() = %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func fixed(width, height int, seed int64) SharedConfig {
	return SharedConfig{Width: width, Height: height, Seed: SeedOf(seed)}
}

func TestImageDataDimensions(t *testing.T) {
	g := newTestValue(t, newFakeBackend())

	tests := []struct {
		name          string
		cfg           SharedConfig
		width, height int
	}{
		{"explicit", SharedConfig{Width: 64, Height: 32}, 64, 32},
		{"defaults", SharedConfig{}, 512, 512},
		{"width only", SharedConfig{Width: 10}, 10, 512},
		{"negative is absent", SharedConfig{Width: -4, Height: 3}, 512, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := g.ImageData(ValueConfig{SharedConfig: tt.cfg})
			if err != nil {
				t.Fatalf("ImageData() = %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
			if len(img.Pix) != tt.width*tt.height*4 {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.width*tt.height*4)
			}
		})
	}
}

func TestImageDataRowZeroAtTop(t *testing.T) {
	g := newTestValue(t, newFakeBackend())

	img, err := g.ImageData(ValueConfig{SharedConfig: fixed(5, 4, 9), Interpolation: Linear})
	if err != nil {
		t.Fatalf("ImageData() = %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := fakeColor(9, 0, x, y)
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRawDataMatchesImageRed(t *testing.T) {
	g := newTestValue(t, newFakeBackend())
	cfg := ValueConfig{SharedConfig: fixed(7, 3, 123)}

	img, err := g.ImageData(cfg)
	if err != nil {
		t.Fatalf("ImageData() = %v", err)
	}
	raw, err := g.RawData(cfg)
	if err != nil {
		t.Fatalf("RawData() = %v", err)
	}
	if len(raw) != 7*3 {
		t.Fatalf("len(raw) = %d, want %d", len(raw), 7*3)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 7; x++ {
			want := float32(img.RGBAAt(x, y).R) / 255
			got := raw[y*7+x]
			if got != want {
				t.Errorf("raw[%d,%d] = %v, want %v", x, y, got, want)
			}
			if got < 0 || got > 1 {
				t.Errorf("raw[%d,%d] = %v out of [0,1]", x, y, got)
			}
		}
	}
}

func TestExplicitSeedIsDeterministic(t *testing.T) {
	g := newTestValue(t, newFakeBackend())
	cfg := ValueConfig{SharedConfig: fixed(16, 16, 42)}

	a, err := g.ImageData(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.ImageData(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders with the same explicit seed differ")
	}

	c, err := g.ImageData(ValueConfig{SharedConfig: fixed(16, 16, 43)})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("renders with different seeds are identical")
	}
}

func TestEveryCallDrawsAgain(t *testing.T) {
	fb := newFakeBackend()
	g := newTestValue(t, fb)
	cfg := ValueConfig{SharedConfig: fixed(4, 4, 1)}

	for range 3 {
		if _, err := g.RawData(cfg); err != nil {
			t.Fatal(err)
		}
	}
	if got := fb.lastSurface().ctx.draws; got != 3 {
		t.Errorf("draws = %d, want 3", got)
	}
}

func TestDataURLWithoutPriorCall(t *testing.T) {
	g := newTestValue(t, newFakeBackend())
	cfg := ValueConfig{SharedConfig: fixed(8, 6, 5)}

	url, err := g.DataURL(cfg)
	if err != nil {
		t.Fatalf("DataURL() = %v", err)
	}
	if !strings.HasPrefix(url, DataURLPrefix) {
		t.Fatalf("DataURL() = %.40q, want prefix %q", url, DataURLPrefix)
	}

	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, DataURLPrefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("png bounds = %v, want 8x6", b)
	}

	img, err := g.ImageData(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			r, _, _, _ := decoded.At(x, y).RGBA()
			if byte(r>>8) != img.RGBAAt(x, y).R {
				t.Fatalf("png (%d,%d) red = %d, image red = %d", x, y, r>>8, img.RGBAAt(x, y).R)
			}
		}
	}
}

func TestEncodeFailureLeavesGeneratorUsable(t *testing.T) {
	fb := newFakeBackend()
	g := newTestValue(t, fb)
	cfg := ValueConfig{SharedConfig: fixed(4, 4, 1)}

	fb.encodeErr = errors.New("blob unavailable")
	if _, err := g.DataURL(cfg); !errors.Is(err, ErrEncode) {
		t.Fatalf("DataURL() error = %v, want ErrEncode", err)
	}

	fb.encodeErr = nil
	if _, err := g.DataURL(cfg); err != nil {
		t.Fatalf("DataURL() after encode failure = %v", err)
	}
	if _, err := g.ImageData(cfg); err != nil {
		t.Fatalf("ImageData() after encode failure = %v", err)
	}
}

func TestInvalidFragmentShaderFailsConstruction(t *testing.T) {
	fb := newFakeBackend()

	_, err := NewSimplex(WithBackend(fb), WithShaders("", "this is not a shader"))
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("NewSimplex() error = %v, want ErrCompile", err)
	}
	var se *ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not *ShaderError", err)
	}
	if se.Stage != StageFragment {
		t.Errorf("Stage = %v, want fragment", se.Stage)
	}
	if se.Log == "" {
		t.Error("ShaderError.Log is empty")
	}

	surfaces, shaders, programs := fb.counts()
	if surfaces != 0 || shaders != 0 || programs != 0 {
		t.Errorf("leaked surfaces=%d shaders=%d programs=%d", surfaces, shaders, programs)
	}
}

func TestBackendSelection(t *testing.T) {
	t.Run("open failure", func(t *testing.T) {
		fb := newFakeBackend()
		fb.openErr = errors.New("no adapter")
		if _, err := NewPerlin(WithBackend(fb)); !errors.Is(err, ErrBackendUnavailable) {
			t.Errorf("error = %v, want ErrBackendUnavailable", err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := NewPerlin(WithBackendName("does-not-exist")); !errors.Is(err, ErrBackendUnavailable) {
			t.Errorf("error = %v, want ErrBackendUnavailable", err)
		}
	})

	t.Run("registered name", func(t *testing.T) {
		fb := newFakeBackend()
		RegisterBackend("fake-select", func() Backend { return fb })
		t.Cleanup(func() { UnregisterBackend("fake-select") })

		g, err := NewPerlin(WithBackendName("fake-select"))
		if err != nil {
			t.Fatalf("NewPerlin() = %v", err)
		}
		defer g.Close()
		if fb.opened != 1 {
			t.Errorf("opened = %d, want 1", fb.opened)
		}
	})
}

func TestCloseReleasesAndRejects(t *testing.T) {
	fb := newFakeBackend()
	g, err := NewValue(WithBackend(fb))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}

	surfaces, shaders, programs := fb.counts()
	if surfaces != 0 || shaders != 0 || programs != 0 {
		t.Errorf("after Close: surfaces=%d shaders=%d programs=%d", surfaces, shaders, programs)
	}

	cfg := ValueConfig{}
	if _, err := g.ImageData(cfg); !errors.Is(err, ErrClosed) {
		t.Errorf("ImageData() = %v, want ErrClosed", err)
	}
	if _, err := g.DataURL(cfg); !errors.Is(err, ErrClosed) {
		t.Errorf("DataURL() = %v, want ErrClosed", err)
	}
	if _, err := g.RawData(cfg); !errors.Is(err, ErrClosed) {
		t.Errorf("RawData() = %v, want ErrClosed", err)
	}
}

func TestStagesDeletedAfterLink(t *testing.T) {
	fb := newFakeBackend()
	newTestValue(t, fb)

	surfaces, shaders, programs := fb.counts()
	if surfaces != 1 || shaders != 0 || programs != 1 {
		t.Errorf("surfaces=%d shaders=%d programs=%d, want 1/0/1", surfaces, shaders, programs)
	}
}

func TestAutoSeedUsesClock(t *testing.T) {
	fb := newFakeBackend()
	at := time.UnixMilli(1_700_000_000_000)
	g := newTestValue(t, fb, WithClock(func() time.Time { return at }))

	if _, err := g.RawData(ValueConfig{SharedConfig: SharedConfig{Width: 2, Height: 2, Seed: AutoSeed}}); err != nil {
		t.Fatal(err)
	}
	got := fb.lastSurface().ctx.bound()[ParamSeed].F[0]
	want := float32(HashTimestamp(1_700_000_000_000))
	if got != want {
		t.Errorf("u_seed = %v, want %v", got, want)
	}
}

func TestWithDefaultsPrecedence(t *testing.T) {
	fb := newFakeBackend()
	g := newTestValue(t, fb, WithDefaults(SharedConfig{Octaves: 4, Seed: SeedOf(11)}))

	if _, err := g.RawData(ValueConfig{SharedConfig: SharedConfig{Width: 2, Height: 2}}); err != nil {
		t.Fatal(err)
	}
	bound := fb.lastSurface().ctx.bound()
	if got := bound[ParamOctaves].I; got != 4 {
		t.Errorf("u_octaves = %d, want algorithm default 4", got)
	}
	if got := bound[ParamSeed].F[0]; got != 11 {
		t.Errorf("u_seed = %v, want algorithm default 11", got)
	}

	if _, err := g.RawData(ValueConfig{SharedConfig: SharedConfig{Width: 2, Height: 2, Octaves: 2}}); err != nil {
		t.Fatal(err)
	}
	if got := fb.lastSurface().ctx.bound()[ParamOctaves].I; got != 2 {
		t.Errorf("u_octaves = %d, want explicit 2", got)
	}
}

func TestValueInterpolationBound(t *testing.T) {
	fb := newFakeBackend()
	g := newTestValue(t, fb)

	tests := []struct {
		interp Interpolation
		want   int32
	}{
		{Linear, 0},
		{Smoothstep, 1},
		{Smootherstep, 2},
		{"", 1},
		{"cubic", 1},
	}
	for _, tt := range tests {
		img, err := g.ImageData(ValueConfig{SharedConfig: fixed(2, 2, 1), Interpolation: tt.interp})
		if err != nil {
			t.Fatal(err)
		}
		if got := fb.lastSurface().ctx.bound()[ParamInterpolation].I; got != tt.want {
			t.Errorf("%q: u_interpolation = %d, want %d", tt.interp, got, tt.want)
		}
		if got := img.RGBAAt(0, 0).B; got != byte(tt.want*50) {
			t.Errorf("%q: blue = %d, want %d", tt.interp, got, tt.want*50)
		}
	}
}

func TestSimplexHasNoInterpolation(t *testing.T) {
	fb := newFakeBackend()
	g, err := NewSimplex(WithBackend(fb))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if _, err := g.RawData(SimplexConfig{SharedConfig: fixed(2, 2, 1)}); err != nil {
		t.Fatal(err)
	}
	if _, ok := fb.lastSurface().ctx.bound()[ParamInterpolation]; ok {
		t.Error("simplex generator bound u_interpolation")
	}
}

func TestNewTexture(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			tex, err := New(alg, WithBackend(newFakeBackend()))
			if err != nil {
				t.Fatalf("New(%v) = %v", alg, err)
			}
			defer tex.Close()

			if tex.Algorithm() != alg {
				t.Errorf("Algorithm() = %v, want %v", tex.Algorithm(), alg)
			}
			cfg := AnyConfig{SharedConfig: fixed(3, 2, 8), Interpolation: Smootherstep}
			img, err := tex.ImageData(cfg)
			if err != nil {
				t.Fatal(err)
			}
			raw, err := tex.RawData(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if len(raw) != 6 || img.Bounds().Dx() != 3 {
				t.Errorf("len(raw) = %d, width = %d", len(raw), img.Bounds().Dx())
			}
			if _, err := tex.DataURL(cfg); err != nil {
				t.Fatal(err)
			}
		})
	}

	if _, err := New(Algorithm(42), WithBackend(newFakeBackend())); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("New(42) = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestConcurrentCallsAreSerialized(t *testing.T) {
	fb := newFakeBackend()
	g := newTestValue(t, fb)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg := ValueConfig{SharedConfig: fixed(8+i, 8, int64(i))}
			img, err := g.ImageData(cfg)
			if err != nil {
				t.Error(err)
				return
			}
			if img.Bounds().Dx() != 8+i {
				t.Errorf("width = %d, want %d", img.Bounds().Dx(), 8+i)
			}
		}()
	}
	wg.Wait()

	if fb.lastSurface().ctx.overlapped.Load() {
		t.Error("two draws were in flight at once")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fb := newFakeBackend()
	fb.declared = map[string]bool{ParamWidth: true, ParamHeight: true}
	g := newTestValue(t, fb, WithLogger(log))

	if _, err := g.RawData(ValueConfig{SharedConfig: fixed(2, 2, 1)}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"program linked", "parameter not declared", "name=u_seed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
