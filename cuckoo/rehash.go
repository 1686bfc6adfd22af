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

// rehash draws fresh seeds for every way and relocates all entries in place,
// allocating nothing. orphan, when non-nil, is the pair whose failed chain
// triggered recovery; it is placed first and is resident when rehash
// returns. The whole procedure restarts with another fresh assignment
// whenever a relocation chain exhausts its budget; each restart draws an
// independent random assignment, and random bipartite cuckoo assignments are
// acyclic with high probability, so the restart loop terminates
// almost surely (not deterministically - the restart counters exist so that
// callers can see how hard recovery had to work).
func (t *Table[V]) rehash(orphan *pair[V]) {
	t.stats.Rehashes++
	var retries uint64
	cur := orphan
	for {
		next, done := t.rehashAttempt(cur)
		if done {
			break
		}
		retries++
		cur = &next
		if debug {
			fmt.Printf("rehash: restart %d carrying orphan %d\n", retries, next.key)
		}
	}
	t.stats.RehashRetries += retries
	if retries > t.stats.MaxRehashRetries {
		t.stats.MaxRehashRetries = retries
	}
}

// rehashAttempt is one full pass: re-seed, mark every live entry stale,
// place the pending orphan, then sweep the stale entries back in under the
// new seeds. It reports done=false with the new orphan when some relocation
// chain exhausted its budget.
func (t *Table[V]) rehashAttempt(orphan *pair[V]) (pair[V], bool) {
	for i := range t.ways {
		t.ways[i].seed = t.rng.Uint64()
	}

	// Every resident entry may now hash to a different nest.
	for wi := range t.ways {
		bs := t.ways[wi].buckets
		for bi := range bs {
			for si := range bs[bi].states {
				if bs[bi].states[si] == slotOccupied {
					bs[bi].states[si] = slotInvalid
				}
			}
		}
	}

	if orphan != nil {
		if o, ok := t.rehashChase(*orphan); !ok {
			return o, false
		}
	}

	// Sweep: take each still-stale entry out and relocate it. A slot that
	// went live again (its entry already relocated, or another entry placed
	// over it) is skipped.
	for wi := range t.ways {
		bs := t.ways[wi].buckets
		for bi := range bs {
			b := &bs[bi]
			for si := range b.states {
				if b.states[si] != slotInvalid {
					continue
				}
				p := pair[V]{key: b.slots[si].key, value: b.slots[si].value}
				b.clear(si)
				if o, ok := t.rehashChase(p); !ok {
					return o, false
				}
			}
		}
	}
	return pair[V]{}, true
}

// rehashChase places one pair under the current seeds using the
// rehash-specific bucket insert. Retry accounting is asymmetric: displacing
// a stale entry resets the budget, because that entry had not yet been
// placed and its relocation starts from scratch, while displacing an
// already-relocated entry counts normally. Without the reset the chain
// could spin forever re-evicting entries that were never placed; it still
// terminates because every stale displacement strictly reduces the number
// of stale slots.
func (t *Table[V]) rehashChase(p pair[V]) (pair[V], bool) {
	w := 0
	max := t.maxChase()
	for try := 0; try < max; {
		b := t.nest(w, p.key)
		outcome, k, v := b.rehashInsert(t.rng, p.key, p.value)
		switch outcome {
		case rehashPlaced:
			return pair[V]{}, true
		case rehashEvictedStale:
			p = pair[V]{key: k, value: v}
			try = 0
		case rehashEvictedLive:
			p = pair[V]{key: k, value: v}
			try++
		default:
			panic(fmt.Sprintf("cuckoo: unrecognized rehash insert outcome %d", outcome))
		}
		w = (w + 1) % nWays
	}
	return p, false
}
