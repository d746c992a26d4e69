// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// Cache stores byte payloads by key.
//
// Get reports a miss as (nil, false, nil). A non-nil error means the
// backing store failed; callers treat it as a miss and log it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a cache key of the form prefix:sha256(parts).
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Memory is a thread-safe LRU cache bounded by the total size of the
// stored payloads. Entries are evicted least recently used first.
//
// Memory must not be copied after creation (has mutex).
type Memory struct {
	mu       sync.Mutex
	entries  map[string]*lruNode
	order    lruList
	maxBytes int64
	bytes    int64
	hits     uint64
	misses   uint64
	now      func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a cache holding at most maxBytes of payload.
// A maxBytes of 0 means unlimited.
func NewMemory(maxBytes int64) *Memory {
	return &Memory{
		entries:  make(map[string]*lruNode),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Get returns a copy of the payload stored under key and marks it most
// recently used. Expired entries are removed and reported as misses.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if ok && node.expired(c.now()) {
		c.remove(node)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, false, nil
	}
	c.hits++
	c.order.MoveToFront(node)
	return bytes.Clone(node.data), true, nil
}

// Set stores a copy of data under key. A ttl of 0 means no expiry. Payloads
// larger than the whole cache are not stored.
func (c *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(old)
	}
	size := int64(len(data))
	if c.maxBytes > 0 && size > c.maxBytes {
		return nil
	}

	node := &lruNode{key: key, data: bytes.Clone(data)}
	if ttl > 0 {
		node.expires = c.now().Add(ttl)
	}
	c.order.PushFront(node)
	c.entries[key] = node
	c.bytes += size

	for c.maxBytes > 0 && c.bytes > c.maxBytes {
		c.remove(c.order.Oldest())
	}
	return nil
}

// Delete removes key from the cache.
func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		c.remove(node)
	}
	return nil
}

// Close drops every entry.
func (c *Memory) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*lruNode)
	c.order.Clear()
	c.bytes = 0
	return nil
}

// Stats returns cache statistics.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Len:      len(c.entries),
		Bytes:    c.bytes,
		MaxBytes: c.maxBytes,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}

// remove unlinks node. Caller must hold c.mu.
func (c *Memory) remove(node *lruNode) {
	c.order.Remove(node)
	delete(c.entries, node.key)
	c.bytes -= int64(len(node.data))
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Bytes is the total payload size.
	Bytes int64
	// MaxBytes is the payload budget, 0 if unlimited.
	MaxBytes int64
	// Hits is the number of Get calls that found a live entry.
	Hits uint64
	// Misses is the number of Get calls that did not.
	Misses uint64
}

// Null is a cache that never stores anything.
type Null struct{}

var _ Cache = Null{}

// Get always returns a miss.
func (Null) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (Null) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (Null) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (Null) Close() error { return nil }
