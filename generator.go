// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Generator renders one noise algorithm on a GPU backend.
//
// The backend surface and the linked program are created once by the
// constructor and reused for every call. Each call resolves its config,
// binds the parameters and draws again; nothing is cached between calls.
//
// A Generator is safe for concurrent use. Calls are serialized: at most one
// render is in flight per generator. Generator implements io.Closer.
type Generator[C Config] struct {
	mu        sync.Mutex
	res       *resources
	algorithm Algorithm
	defaults  SharedConfig
	now       func() time.Time
	log       *slog.Logger
	closed    bool
}

// Texture is a Generator whose algorithm is chosen at run time.
// Fields of AnyConfig that do not apply to the algorithm are ignored.
type Texture interface {
	io.Closer

	// Algorithm returns the algorithm the texture renders.
	Algorithm() Algorithm

	// ImageData renders and returns the pixels with row zero at the top.
	ImageData(cfg AnyConfig) (*image.RGBA, error)

	// DataURL renders and returns a PNG data URL.
	DataURL(cfg AnyConfig) (string, error)

	// RawData renders and returns the red channel normalized to [0, 1].
	RawData(cfg AnyConfig) ([]float32, error)
}

// NewValue creates a value noise generator.
func NewValue(opts ...Option) (*Generator[ValueConfig], error) {
	return newGenerator[ValueConfig](AlgorithmValue, opts)
}

// NewSimplex creates a simplex noise generator.
func NewSimplex(opts ...Option) (*Generator[SimplexConfig], error) {
	return newGenerator[SimplexConfig](AlgorithmSimplex, opts)
}

// NewPerlin creates a Perlin noise generator.
func NewPerlin(opts ...Option) (*Generator[PerlinConfig], error) {
	return newGenerator[PerlinConfig](AlgorithmPerlin, opts)
}

// New creates a generator for alg behind the Texture interface.
func New(alg Algorithm, opts ...Option) (Texture, error) {
	switch alg {
	case AlgorithmValue:
		g, err := NewValue(opts...)
		if err != nil {
			return nil, err
		}
		return texture[ValueConfig]{g, AnyConfig.valueConfig}, nil
	case AlgorithmSimplex:
		g, err := NewSimplex(opts...)
		if err != nil {
			return nil, err
		}
		return texture[SimplexConfig]{g, AnyConfig.simplexConfig}, nil
	case AlgorithmPerlin:
		g, err := NewPerlin(opts...)
		if err != nil {
			return nil, err
		}
		return texture[PerlinConfig]{g, AnyConfig.perlinConfig}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
	}
}

func newGenerator[C Config](alg Algorithm, opts []Option) (*Generator[C], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = Logger()
	}

	b, err := selectBackend(o)
	if err != nil {
		return nil, err
	}

	vertexSource := o.vertexSource
	if vertexSource == "" {
		vertexSource = quadVertexSource
	}
	fragmentSource := o.fragmentSource
	if fragmentSource == "" {
		fragmentSource, err = alg.fragmentSource()
		if err != nil {
			return nil, err
		}
	}

	log.Debug("noise: creating generator", "algorithm", alg, "backend", b.Name())
	res, err := setupResources(b, vertexSource, fragmentSource, log)
	if err != nil {
		return nil, err
	}

	return &Generator[C]{
		res:       res,
		algorithm: alg,
		defaults:  o.defaults,
		now:       o.now,
		log:       log,
	}, nil
}

// selectBackend applies WithBackend, then WithBackendName, then DefaultBackend.
func selectBackend(o options) (Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	if o.backendName != "" {
		b := GetBackend(o.backendName)
		if b == nil {
			return nil, fmt.Errorf("%w: %q is not registered", ErrBackendUnavailable, o.backendName)
		}
		return b, nil
	}
	b := DefaultBackend()
	if b == nil {
		return nil, fmt.Errorf("%w: no backend registered", ErrBackendUnavailable)
	}
	return b, nil
}

// Algorithm returns the algorithm the generator renders.
func (g *Generator[C]) Algorithm() Algorithm {
	return g.algorithm
}

// ImageData renders cfg and returns the pixels with row zero at the top.
// The image is Width x Height and every channel is kept.
func (g *Generator[C]) ImageData(cfg C) (*image.RGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.prepare(cfg)
	if err != nil {
		return nil, err
	}
	return toImage(g.res, p.Width, p.Height)
}

// DataURL renders cfg and returns "data:image/png;base64,..." of the
// surface. It blocks until the backend has encoded the PNG. An encode
// failure returns an error wrapping ErrEncode and leaves the generator
// usable.
func (g *Generator[C]) DataURL(cfg C) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.prepare(cfg); err != nil {
		return "", err
	}
	return toDataURL(g.res)
}

// RawData renders cfg and returns the red channel as Width*Height values
// in [0, 1], row-major from the top-left pixel.
func (g *Generator[C]) RawData(cfg C) ([]float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.prepare(cfg)
	if err != nil {
		return nil, err
	}
	return toRawArray(g.res, p.Width, p.Height)
}

// Close releases the surface and the program. Subsequent calls return
// ErrClosed. Close is idempotent.
func (g *Generator[C]) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	g.res.release()
	g.log.Debug("noise: generator closed", "algorithm", g.algorithm)
	return nil
}

// prepare resolves cfg and binds the parameters. Callers hold g.mu.
func (g *Generator[C]) prepare(cfg C) (Params, error) {
	if g.closed {
		return Params{}, ErrClosed
	}
	p := resolveAt(cfg.shared(), g.defaults, g.now)
	params := sharedParameters(p).merge(cfg.extras())

	g.log.Debug("noise: render",
		"algorithm", g.algorithm,
		"width", p.Width,
		"height", p.Height,
		"seed", p.Seed,
	)
	if err := bind(g.res, p, params, g.log); err != nil {
		return Params{}, err
	}
	return p, nil
}

// texture adapts a typed Generator to Texture.
type texture[C Config] struct {
	g       *Generator[C]
	convert func(AnyConfig) C
}

func (t texture[C]) Algorithm() Algorithm { return t.g.Algorithm() }

func (t texture[C]) ImageData(cfg AnyConfig) (*image.RGBA, error) {
	return t.g.ImageData(t.convert(cfg))
}

func (t texture[C]) DataURL(cfg AnyConfig) (string, error) {
	return t.g.DataURL(t.convert(cfg))
}

func (t texture[C]) RawData(cfg AnyConfig) ([]float32, error) {
	return t.g.RawData(t.convert(cfg))
}

func (t texture[C]) Close() error { return t.g.Close() }
