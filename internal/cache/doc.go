// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache stores encoded noise textures for the HTTP server.
//
// Only deterministic renders are cached: a request with an explicit seed
// always produces the same bytes, so the encoded PNG can be served again
// without touching the GPU.
//
// # Implementations
//
// Memory is an in-process LRU bounded by total payload size:
//
//	c := cache.NewMemory(64 << 20)
//	_ = c.Set(ctx, key, png, time.Hour)
//	data, ok, err := c.Get(ctx, key)
//
// Redis shares entries between server replicas:
//
//	c, err := cache.DialRedis(ctx, "redis://localhost:6379/0", "noise:")
//
// Null never stores anything and is used when caching is disabled.
//
// # Thread Safety
//
// All implementations are safe for concurrent use.
package cache
