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

import "math/rand/v2"

// scan returns the index of the slot holding key, if any. Stale (mid-rehash)
// slots match too: a key keeps its identity while awaiting relocation.
func (b *Bucket[V]) scan(key uint64) (int, bool) {
	for i := range b.slots {
		if b.states[i] != slotEmpty && b.slots[i].key == key {
			return i, true
		}
	}
	return -1, false
}

// emptySlot returns the index of the first empty slot, if any.
func (b *Bucket[V]) emptySlot() (int, bool) {
	for i, st := range b.states {
		if st == slotEmpty {
			return i, true
		}
	}
	return -1, false
}

// place stores the pair in slot i as a live entry.
func (b *Bucket[V]) place(i int, key uint64, value V) {
	b.states[i] = slotOccupied
	b.slots[i] = slot[V]{key: key, value: value}
}

// clear empties slot i, dropping any reference the value held.
func (b *Bucket[V]) clear(i int) {
	b.states[i] = slotEmpty
	b.slots[i] = slot[V]{}
}

// evict overwrites a uniformly random slot of a full bucket with the supplied
// pair and returns the displaced pair. The uniform choice is the cuckoo
// mechanic itself; see the package comment.
func (b *Bucket[V]) evict(rng *rand.Rand, key uint64, value V) (uint64, V) {
	i := int(rng.Uint32N(slotsPerBucket))
	old := b.slots[i]
	b.place(i, key, value)
	return old.key, old.value
}

// rehashOutcome describes what rehashInsert did with a pair.
type rehashOutcome uint8

const (
	// rehashPlaced: the pair took an empty slot.
	rehashPlaced rehashOutcome = iota
	// rehashEvictedStale: the pair displaced an entry not yet relocated
	// under the new seeds.
	rehashEvictedStale
	// rehashEvictedLive: the pair displaced an already-relocated entry.
	rehashEvictedLive
)

// rehashInsert places a pair during rehash recovery, preferring an empty
// slot, then a random stale slot, and only then a random live slot. The
// stale preference is what lets a rehash make progress: displacing an entry
// that was already relocated undoes finished work, while displacing a stale
// one merely reorders work that is still pending.
func (b *Bucket[V]) rehashInsert(rng *rand.Rand, key uint64, value V) (rehashOutcome, uint64, V) {
	var zero V
	if i, ok := b.emptySlot(); ok {
		b.place(i, key, value)
		return rehashPlaced, 0, zero
	}
	var stale [slotsPerBucket]int
	n := 0
	for i, st := range b.states {
		if st == slotInvalid {
			stale[n] = i
			n++
		}
	}
	var victim int
	outcome := rehashEvictedLive
	if n > 0 {
		victim = stale[int(rng.Uint32N(uint32(n)))]
		outcome = rehashEvictedStale
	} else {
		victim = int(rng.Uint32N(slotsPerBucket))
	}
	old := b.slots[victim]
	b.place(victim, key, value)
	return outcome, old.key, old.value
}
