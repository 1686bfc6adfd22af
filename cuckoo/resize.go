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

// Resize doubles (grow=true) or halves the table's buckets per way,
// migrating every live entry into freshly seeded arrays. Growing on request
// is always attempted; shrinking is permitted only when the table holds at
// most a quarter of its capacity, and is never performed automatically on
// removal (shrink-on-remove next to the grow threshold would oscillate).
//
// Resize reports false and leaves the table completely untouched when the
// new arrays cannot be allocated, migration cannot terminate, or the shrink
// precondition does not hold.
func (t *Table[V]) Resize(grow bool) bool {
	if !grow {
		if t.used > t.Cap()/4 || t.bucketsPerWay == 1 {
			return false
		}
	}
	ok := t.resize(grow)
	t.checkInvariants()
	return ok
}

func (t *Table[V]) resize(grow bool) bool {
	newBPW := t.bucketsPerWay / 2
	if grow {
		newBPW = t.bucketsPerWay * 2
	}

	var nw [nWays]way[V]
	for i := range nw {
		b := t.allocator.AllocBuckets(newBPW)
		if b == nil {
			for j := 0; j < i; j++ {
				t.allocator.FreeBuckets(nw[j].buckets)
			}
			return false
		}
		nw[i] = way[V]{buckets: b, seed: t.rng.Uint64(), mask: uint64(newBPW) - 1}
	}

	if !t.migrate(&nw) {
		// Migration assumes enough headroom that a chain never exhausts;
		// when one does anyway, abandon the new arrays and leave the live
		// table exactly as it was.
		for i := range nw {
			t.allocator.FreeBuckets(nw[i].buckets)
		}
		return false
	}

	old := t.ways
	t.ways = nw
	t.bucketsPerWay = newBPW
	for i := range old {
		t.allocator.FreeBuckets(old[i].buckets)
	}
	t.stats.Resizes++
	if debug {
		fmt.Printf("resize: grow=%v buckets-per-way=%d used=%d\n", grow, newBPW, t.used)
	}
	return true
}

// migrate reinserts every live entry into dst using bounded chases only; the
// escalation paths are deliberately unreachable here. It reports false on
// the first chain that exhausts its budget.
func (t *Table[V]) migrate(dst *[nWays]way[V]) bool {
	for wi := range t.ways {
		bs := t.ways[wi].buckets
		for bi := range bs {
			b := &bs[bi]
			for si, st := range b.states {
				if st != slotOccupied {
					continue
				}
				if _, ok := t.chase(dst, b.slots[si].key, b.slots[si].value); !ok {
					return false
				}
			}
		}
	}
	return true
}
