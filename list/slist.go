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

package list

// SNode is a node of an SList.
type SNode[V any] struct {
	next *SNode[V]

	Value V
}

// Next returns the next node or nil.
func (n *SNode[V]) Next() *SNode[V] {
	return n.next
}

// SList is a singly-linked forward list. The zero value is an empty list
// ready to use. Only the head is tracked, so pushes and pops happen at the
// front and the list is cheap to embed.
type SList[V any] struct {
	head *SNode[V]
	len  int
}

// Len returns the number of nodes. O(1).
func (l *SList[V]) Len() int {
	return l.len
}

// Front returns the first node or nil.
func (l *SList[V]) Front() *SNode[V] {
	return l.head
}

// PushFront inserts a new node carrying v at the front and returns it.
func (l *SList[V]) PushFront(v V) *SNode[V] {
	n := &SNode[V]{next: l.head, Value: v}
	l.head = n
	l.len++
	return n
}

// PopFront removes the first node and returns its value, with ok=false on an
// empty list.
func (l *SList[V]) PopFront() (v V, ok bool) {
	n := l.head
	if n == nil {
		return v, false
	}
	l.head = n.next
	n.next = nil
	l.len--
	return n.Value, true
}

// Reverse reverses the list in place. O(n), no allocation.
func (l *SList[V]) Reverse() {
	var prev *SNode[V]
	n := l.head
	for n != nil {
		next := n.next
		n.next = prev
		prev = n
		n = next
	}
	l.head = prev
}

// Do calls f for each value from front to back until f returns false.
func (l *SList[V]) Do(f func(v V) bool) {
	for n := l.head; n != nil; n = n.next {
		if !f(n.Value) {
			return
		}
	}
}
