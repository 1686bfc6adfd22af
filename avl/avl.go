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

// Package avl implements an ordered map as a height-balanced AVL tree. Every
// operation is O(log n); the subtree heights at any node differ by at most
// one.
//
// A Tree is NOT goroutine-safe.
package avl

import "cmp"

// Tree is an AVL tree mapping ordered keys to values. The zero value is an
// empty tree ready to use.
type Tree[K cmp.Ordered, V any] struct {
	root *node[K, V]
	len  int
}

type node[K cmp.Ordered, V any] struct {
	key    K
	value  V
	left   *node[K, V]
	right  *node[K, V]
	height int
}

func height[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[K, V]) update() {
	n.height = 1 + max(height(n.left), height(n.right))
}

func (n *node[K, V]) balance() int {
	return height(n.left) - height(n.right)
}

func rotateRight[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	l := n.left
	n.left = l.right
	l.right = n
	n.update()
	l.update()
	return l
}

func rotateLeft[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	r := n.right
	n.right = r.left
	r.left = n
	n.update()
	r.update()
	return r
}

// rebalance restores the AVL invariant at n after one insertion or deletion
// below it.
func rebalance[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	n.update()
	switch b := n.balance(); {
	case b > 1:
		if n.left.balance() < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case b < -1:
		if n.right.balance() > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// Insert stores value under key, replacing any existing value. It reports
// whether an existing entry was replaced.
func (t *Tree[K, V]) Insert(key K, value V) (replaced bool) {
	t.root, replaced = insert(t.root, key, value)
	if !replaced {
		t.len++
	}
	return replaced
}

func insert[K cmp.Ordered, V any](n *node[K, V], key K, value V) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{key: key, value: value, height: 1}, false
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
	return rebalance(n), replaced
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

// Delete removes key and returns the value it held, with ok=false if key was
// absent.
func (t *Tree[K, V]) Delete(key K) (value V, ok bool) {
	t.root, value, ok = remove(t.root, key)
	if ok {
		t.len--
	}
	return value, ok
}

func remove[K cmp.Ordered, V any](n *node[K, V], key K) (_ *node[K, V], value V, ok bool) {
	if n == nil {
		return nil, value, false
	}
	switch {
	case key < n.key:
		n.left, value, ok = remove(n.left, key)
	case key > n.key:
		n.right, value, ok = remove(n.right, key)
	default:
		value, ok = n.value, true
		switch {
		case n.left == nil:
			return n.right, value, true
		case n.right == nil:
			return n.left, value, true
		default:
			// Two children: replace with the in-order successor and delete
			// it from the right subtree.
			s := n.right
			for s.left != nil {
				s = s.left
			}
			n.key, n.value = s.key, s.value
			n.right, _, _ = remove(n.right, s.key)
		}
	}
	return rebalance(n), value, ok
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

// Height returns the height of the tree: 0 when empty, 1 for a single node.
func (t *Tree[K, V]) Height() int {
	return height(t.root)
}
