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

// Package list implements typed linked lists: List is a doubly-linked list
// with a sentinel root, SList is a singly-linked forward list. Both avoid
// the interface{} boxing of container/list.
//
// Neither type is goroutine-safe.
package list

// Element is a node of a List. The element's position in a list is
// meaningful only while it remains inserted.
type Element[V any] struct {
	next, prev *Element[V]
	// The list this element belongs to, nil when detached.
	list *List[V]

	Value V
}

// Next returns the next list element or nil.
func (e *Element[V]) Next() *Element[V] {
	if n := e.next; e.list != nil && n != &e.list.root {
		return n
	}
	return nil
}

// Prev returns the previous list element or nil.
func (e *Element[V]) Prev() *Element[V] {
	if p := e.prev; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// List is a doubly-linked list. The zero value is an empty list ready to
// use.
type List[V any] struct {
	// root is a sentinel: root.next is the front, root.prev is the back.
	// Lazily linked to itself on first use.
	root Element[V]
	len  int
}

// lazyInit links the sentinel to itself so the zero value works.
func (l *List[V]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// Len returns the number of elements. O(1).
func (l *List[V]) Len() int {
	return l.len
}

// Front returns the first element or nil.
func (l *List[V]) Front() *Element[V] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// Back returns the last element or nil.
func (l *List[V]) Back() *Element[V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// insertAfter links e after at.
func (l *List[V]) insertAfter(e, at *Element[V]) *Element[V] {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.list = l
	l.len++
	return e
}

// PushFront inserts a new element carrying v at the front and returns it.
func (l *List[V]) PushFront(v V) *Element[V] {
	l.lazyInit()
	return l.insertAfter(&Element[V]{Value: v}, &l.root)
}

// PushBack inserts a new element carrying v at the back and returns it.
func (l *List[V]) PushBack(v V) *Element[V] {
	l.lazyInit()
	return l.insertAfter(&Element[V]{Value: v}, l.root.prev)
}

// InsertBefore inserts a new element carrying v immediately before mark. If
// mark is not an element of l, the list is left unchanged and nil is
// returned.
func (l *List[V]) InsertBefore(v V, mark *Element[V]) *Element[V] {
	if mark.list != l {
		return nil
	}
	return l.insertAfter(&Element[V]{Value: v}, mark.prev)
}

// InsertAfter inserts a new element carrying v immediately after mark. If
// mark is not an element of l, the list is left unchanged and nil is
// returned.
func (l *List[V]) InsertAfter(v V, mark *Element[V]) *Element[V] {
	if mark.list != l {
		return nil
	}
	return l.insertAfter(&Element[V]{Value: v}, mark)
}

// Remove unlinks e from l and returns its value. e must be an element of l.
func (l *List[V]) Remove(e *Element[V]) V {
	if e.list == l {
		e.prev.next = e.next
		e.next.prev = e.prev
		e.next = nil
		e.prev = nil
		e.list = nil
		l.len--
	}
	return e.Value
}

// MoveToFront moves e to the front of l. e must be an element of l.
func (l *List[V]) MoveToFront(e *Element[V]) {
	if e.list != l || l.root.next == e {
		return
	}
	l.move(e, &l.root)
}

// MoveToBack moves e to the back of l. e must be an element of l.
func (l *List[V]) MoveToBack(e *Element[V]) {
	if e.list != l || l.root.prev == e {
		return
	}
	l.move(e, l.root.prev)
}

// move unlinks e and relinks it after at.
func (l *List[V]) move(e, at *Element[V]) {
	if e == at {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev

	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
}

// Do calls f for each value from front to back until f returns false.
func (l *List[V]) Do(f func(v V) bool) {
	for e := l.Front(); e != nil; e = e.Next() {
		if !f(e.Value) {
			return
		}
	}
}
