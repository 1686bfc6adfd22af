// Copyright 2025 The libstruct Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rbtree implements an ordered map as a left-leaning red-black tree
// (Sedgewick's 2-3 variant). Compared to package avl it rebalances less
// aggressively on mutation at the cost of slightly deeper lookups.
//
// A Tree is NOT goroutine-safe.
package rbtree

import "cmp"

const (
	red   = true
	black = false
)

// Tree is a left-leaning red-black tree mapping ordered keys to values. The
// zero value is an empty tree ready to use.
type Tree[K cmp.Ordered, V any] struct {
	root *node[K, V]
	len  int
}

type node[K cmp.Ordered, V any] struct {
	key   K
	value V
	left  *node[K, V]
	right *node[K, V]
	color bool
}

func isRed[K cmp.Ordered, V any](n *node[K, V]) bool {
	return n != nil && n.color == red
}

func rotateLeft[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	r := n.right
	n.right = r.left
	r.left = n
	r.color = n.color
	n.color = red
	return r
}

func rotateRight[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	l := n.left
	n.left = l.right
	l.right = n
	l.color = n.color
	n.color = red
	return l
}

func flipColors[K cmp.Ordered, V any](n *node[K, V]) {
	n.color = !n.color
	n.left.color = !n.left.color
	n.right.color = !n.right.color
}

// fixUp restores the left-leaning invariants on the way back up: no red
// right link, no two reds in a row.
func fixUp[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	if isRed(n.right) && !isRed(n.left) {
		n = rotateLeft(n)
	}
	if isRed(n.left) && isRed(n.left.left) {
		n = rotateRight(n)
	}
	if isRed(n.left) && isRed(n.right) {
		flipColors(n)
	}
	return n
}

// Insert stores value under key, replacing any existing value. It reports
// whether an existing entry was replaced.
func (t *Tree[K, V]) Insert(key K, value V) (replaced bool) {
	t.root, replaced = insert(t.root, key, value)
	t.root.color = black
	if !replaced {
		t.len++
	}
	return replaced
}

func insert[K cmp.Ordered, V any](n *node[K, V], key K, value V) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{key: key, value: value, color: red}, false
	}
	var replaced bool
	switch {
	case key < n.key:
		n.left, replaced = insert(n.left, key, value)
	case key > n.key:
		n.right, replaced = insert(n.right, key, value)
	default:
		n.value = value
		return n, true
	}
	return fixUp(n), replaced
}

// Get returns the value stored under key, with ok=false if key is absent.
func (t *Tree[K, V]) Get(key K) (value V, ok bool) {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.value, true
		}
	}
	return value, false
}

func moveRedLeft[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	flipColors(n)
	if isRed(n.right.left) {
		n.right = rotateRight(n.right)
		n = rotateLeft(n)
		flipColors(n)
	}
	return n
}

func moveRedRight[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	flipColors(n)
	if isRed(n.left.left) {
		n = rotateRight(n)
		flipColors(n)
	}
	return n
}

// Delete removes key and returns the value it held, with ok=false if key was
// absent.
func (t *Tree[K, V]) Delete(key K) (value V, ok bool) {
	if _, ok = t.Get(key); !ok {
		return value, false
	}
	t.root, value = remove(t.root, key)
	if t.root != nil {
		t.root.color = black
	}
	t.len--
	return value, true
}

// remove assumes key is present; Delete checks first.
func remove[K cmp.Ordered, V any](n *node[K, V], key K) (*node[K, V], V) {
	var value V
	if key < n.key {
		if !isRed(n.left) && !isRed(n.left.left) {
			n = moveRedLeft(n)
		}
		n.left, value = remove(n.left, key)
	} else {
		if isRed(n.left) {
			n = rotateRight(n)
		}
		if key == n.key && n.right == nil {
			return nil, n.value
		}
		if !isRed(n.right) && !isRed(n.right.left) {
			n = moveRedRight(n)
		}
		if key == n.key {
			value = n.value
			s := n.right
			for s.left != nil {
				s = s.left
			}
			n.key, n.value = s.key, s.value
			n.right = removeMin(n.right)
		} else {
			n.right, value = remove(n.right, key)
		}
	}
	return fixUp(n), value
}

func removeMin[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	if n.left == nil {
		return nil
	}
	if !isRed(n.left) && !isRed(n.left.left) {
		n = moveRedLeft(n)
	}
	n.left = removeMin(n.left)
	return fixUp(n)
}

// Min returns the smallest key and its value, with ok=false on an empty
// tree.
func (t *Tree[K, V]) Min() (key K, value V, ok bool) {
	n := t.root
	if n == nil {
		return key, value, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.key, n.value, true
}

// Max returns the largest key and its value, with ok=false on an empty tree.
func (t *Tree[K, V]) Max() (key K, value V, ok bool) {
	n := t.root
	if n == nil {
		return key, value, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.key, n.value, true
}

// InOrder calls yield for each entry in ascending key order until yield
// returns false.
func (t *Tree[K, V]) InOrder(yield func(key K, value V) bool) {
	inOrder(t.root, yield)
}

func inOrder[K cmp.Ordered, V any](n *node[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	return inOrder(n.left, yield) && yield(n.key, n.value) && inOrder(n.right, yield)
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int {
	return t.len
}
