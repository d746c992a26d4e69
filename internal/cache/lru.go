// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import "time"

// lruNode is one cache entry linked into the recency list.
type lruNode struct {
	key     string
	data    []byte
	expires time.Time // zero means no expiry

	prev *lruNode
	next *lruNode
}

func (n *lruNode) expired(now time.Time) bool {
	return !n.expires.IsZero() && !now.Before(n.expires)
}

// lruList orders entries by recency. Head is the most recently used,
// tail the least. Not thread-safe.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

// Len returns the number of linked nodes.
func (l *lruList) Len() int {
	return l.len
}

// PushFront links node as the most recently used.
func (l *lruList) PushFront(node *lruNode) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// MoveToFront marks a linked node as the most recently used.
func (l *lruList) MoveToFront(node *lruNode) {
	if node == l.head {
		return
	}
	l.Remove(node)
	l.PushFront(node)
}

// Remove unlinks node.
func (l *lruList) Remove(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev, node.next = nil, nil
	l.len--
}

// Oldest returns the least recently used node, or nil.
func (l *lruList) Oldest() *lruNode {
	return l.tail
}

// Clear unlinks everything.
func (l *lruList) Clear() {
	l.head, l.tail, l.len = nil, nil, 0
}
