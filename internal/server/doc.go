// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package server serves noise textures over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /v1/algorithms
//	GET /v1/noise/{algorithm}.png
//	GET /v1/noise/{algorithm}/dataurl
//	GET /v1/noise/{algorithm}/raw
//
// Query parameters mirror noise.SharedConfig: width, height, seed
// (integer or "auto"), frequency, octaves, persistence, lacunarity,
// amplitude, plus interpolation for value noise. Absent parameters fall
// back to the generator defaults.
//
// PNG responses for requests with an explicit integer seed are
// deterministic and are stored in the configured cache. Every response
// carries an X-Request-ID header.
package server
