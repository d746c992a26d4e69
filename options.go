// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"log/slog"
	"time"
)

// Option configures a Generator during creation.
//
// Example:
//
//	// Default backend and bundled shaders
//	gen, err := noise.NewSimplex()
//
//	// Explicit backend and algorithm-level defaults
//	gen, err := noise.NewSimplex(
//	    noise.WithBackendName("wgpu"),
//	    noise.WithDefaults(noise.SharedConfig{Octaves: 4}),
//	)
type Option func(*options)

// options holds optional configuration for Generator creation.
type options struct {
	backend        Backend
	backendName    string
	vertexSource   string
	fragmentSource string
	defaults       SharedConfig
	now            func() time.Time
	log            *slog.Logger
}

// defaultOptions returns the default generator options.
func defaultOptions() options {
	return options{
		now: time.Now,
	}
}

// WithBackend uses b instead of a registered backend.
// It takes precedence over WithBackendName.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackendName selects a registered backend by name.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithShaders replaces the bundled WGSL stages. An empty string keeps the
// bundled source for that stage.
//
// The fragment stage reads its parameters from a uniform block at
// @group(0) @binding(0). Members may be any subset of the Param* names.
func WithShaders(vertex, fragment string) Option {
	return func(o *options) {
		o.vertexSource = vertex
		o.fragmentSource = fragment
	}
}

// WithDefaults sets the algorithm-level defaults consulted by Resolve
// between the per-call config and DefaultSharedConfig.
func WithDefaults(defaults SharedConfig) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}

// WithClock sets the clock used to derive AutoSeed values.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger of one generator. Without it the generator
// logs through Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}
