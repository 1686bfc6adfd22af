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

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBucketScanPlaceClear(t *testing.T) {
	var b Bucket[int]

	_, ok := b.scan(1)
	require.False(t, ok)

	i, ok := b.emptySlot()
	require.True(t, ok)
	require.Equal(t, 0, i)

	b.place(0, 1, 100)
	b.place(1, 2, 200)

	i, ok = b.scan(2)
	require.True(t, ok)
	require.Equal(t, 1, i)
	require.Equal(t, 200, b.slots[i].value)

	i, ok = b.emptySlot()
	require.True(t, ok)
	require.Equal(t, 2, i)

	b.clear(1)
	_, ok = b.scan(2)
	require.False(t, ok)
	i, ok = b.emptySlot()
	require.True(t, ok)
	require.Equal(t, 1, i)
}

// Eviction from a full bucket must pick victims uniformly at random; a
// deterministic victim would make eviction cycles reproducible under
// adversarial keys. Check that every slot gets chosen.
func TestBucketEvictRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	seen := make(map[uint64]int)
	for trial := 0; trial < 1000; trial++ {
		var b Bucket[int]
		for i := 0; i < slotsPerBucket; i++ {
			b.place(i, uint64(i+1), i)
		}
		k, _ := b.evict(rng, 99, 0)
		require.GreaterOrEqual(t, k, uint64(1))
		require.LessOrEqual(t, k, uint64(slotsPerBucket))
		seen[k]++

		// The new pair is resident, the victim is not.
		_, ok := b.scan(99)
		require.True(t, ok)
		_, ok = b.scan(k)
		require.False(t, ok)
	}
	require.Len(t, seen, slotsPerBucket)
}

func TestBucketRehashInsertPreference(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 17))

	// An empty slot is always preferred.
	var b Bucket[int]
	b.place(0, 1, 0)
	b.states[0] = slotInvalid
	outcome, _, _ := b.rehashInsert(rng, 50, 0)
	require.Equal(t, rehashPlaced, outcome)
	i, ok := b.scan(50)
	require.True(t, ok)
	require.Equal(t, slotOccupied, b.states[i])

	// With no empty slots a stale victim is preferred over a live one.
	b = Bucket[int]{}
	for i := 0; i < slotsPerBucket; i++ {
		b.place(i, uint64(i+1), i)
	}
	b.states[2] = slotInvalid
	outcome, k, _ := b.rehashInsert(rng, 60, 0)
	require.Equal(t, rehashEvictedStale, outcome)
	require.Equal(t, uint64(3), k)

	// All live: a live victim gets displaced.
	b = Bucket[int]{}
	for i := 0; i < slotsPerBucket; i++ {
		b.place(i, uint64(i+1), i)
	}
	outcome, k, _ = b.rehashInsert(rng, 70, 0)
	require.Equal(t, rehashEvictedLive, outcome)
	require.GreaterOrEqual(t, k, uint64(1))
	require.LessOrEqual(t, k, uint64(slotsPerBucket))
}
