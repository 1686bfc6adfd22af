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

package cuckoo

import "fmt"

// pair is a key/value couple held outside the table while in flight: the
// "orphan" of an eviction chain or rehash.
type pair[V any] struct {
	key   uint64
	value V
}

// Insert adds key with value to the table. Inserting a key that is already
// present is an idempotent no-op: it reports success and leaves the stored
// value untouched.
//
// Insert reports failure only when the table needed to grow, the allocator
// could not satisfy the larger arrays, and the table has been rolled back to
// exactly its pre-call contents. A failed grow fails the insert even though a
// rehash might have found room: at or above the grow threshold a rehash is
// unlikely to terminate quickly, and a predictable failure beats a recovery
// stampede.
func (t *Table[V]) Insert(key uint64, value V) bool {
	if t.Exists(key) {
		return true
	}
	orphan, ok := t.chase(&t.ways, key, value)
	if ok {
		t.used++
		t.checkInvariants()
		return true
	}

	// The chain exhausted its budget: the table is saturated under the
	// current hash assignment. Note the original pair is resident at this
	// point and orphan is whatever the final eviction displaced.
	for {
		if t.used >= t.growThreshold() {
			if t.resize(true) {
				if debug {
					fmt.Printf("insert(%d): grew to %d buckets/way, retrying orphan %d\n",
						key, t.bucketsPerWay, orphan.key)
				}
				if orphan, ok = t.chase(&t.ways, orphan.key, orphan.value); ok {
					t.used++
					t.checkInvariants()
					return true
				}
				// Exceptionally unlucky assignment even after doubling;
				// the load factor is now low enough for the rehash path.
				continue
			}
			t.rollback(key, orphan)
			t.checkInvariants()
			return false
		}
		t.rehash(&orphan)
		t.used++
		t.checkInvariants()
		return true
	}
}

// chase runs the direct insertion attempts followed by the bounded
// eviction-and-relocate chain against the given ways. On ok=false the
// returned orphan is the pair left holding no slot; every pair displaced
// earlier in the chain, including the original, is resident.
func (t *Table[V]) chase(ws *[nWays]way[V], key uint64, value V) (pair[V], bool) {
	// Direct attempts: any nest with an empty slot wins immediately.
	for w := 0; w < nWays; w++ {
		b := t.nestOf(ws, w, key)
		if i, ok := b.emptySlot(); ok {
			b.place(i, key, value)
			return pair[V]{}, true
		}
	}

	// Eviction chase: displace a random occupant, then relocate the
	// displaced pair to its nest in the next way, wrapping.
	cur := pair[V]{key: key, value: value}
	w := 0
	for try, max := 0, t.maxChase(); try < max; try++ {
		b := t.nestOf(ws, w, cur.key)
		if i, ok := b.emptySlot(); ok {
			b.place(i, cur.key, cur.value)
			return pair[V]{}, true
		}
		cur.key, cur.value = b.evict(t.rng, cur.key, cur.value)
		if debug {
			fmt.Printf("chase(%d): try=%d way=%d displaced %d\n", key, try, w, cur.key)
		}
		w = (w + 1) % nWays
	}
	return cur, false
}

// rollback restores the pre-call key set after a grow failed mid-chain. At
// entry the original pair is resident while the displaced orphan is not;
// removing the original frees a slot and the orphan is then re-placed. If
// even that chase cannot terminate, rehash recovery - which allocates
// nothing - settles it.
func (t *Table[V]) rollback(key uint64, orphan pair[V]) {
	if orphan.key == key {
		// The chain displaced the original pair itself; the key set is
		// already the pre-call one.
		return
	}
	removed := false
	for w := 0; w < nWays && !removed; w++ {
		b := t.nest(w, key)
		if i, ok := b.scan(key); ok {
			b.clear(i)
			removed = true
		}
	}
	if !removed {
		panic(fmt.Sprintf("cuckoo: rollback: in-flight key %d is not resident", key))
	}
	if o, ok := t.chase(&t.ways, orphan.key, orphan.value); !ok {
		t.rehash(&o)
	}
}
