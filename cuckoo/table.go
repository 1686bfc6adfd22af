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

// Package cuckoo implements a bucketized, multi-way cuckoo hash table with
// 64-bit integer keys. See https://en.wikipedia.org/wiki/Cuckoo_hashing for
// background on the algorithm.
//
// # Layout
//
// The table is composed of nWays (2) parallel arrays of buckets called ways.
// Each way has its own hash seed, and a key hashes to exactly one bucket per
// way - its "nest" in that way. A bucket is a small fixed group of
// slotsPerBucket (4) slots, sized so that the key/value payload of a bucket
// of 8-byte values fills one 64-byte cache line. Point queries probe the
// key's nest in each way in order, so every lookup, hit or miss, costs
// exactly nWays bucket scans regardless of load factor.
//
// # Insertion
//
// An insert first tries to land in an empty slot of one of the key's nests.
// If every nest is full it displaces a uniformly random occupant of one of
// them and relocates the displaced pair to that pair's nest in the next way,
// repeating up to a logarithmic bound on the chain length. Randomized victim
// selection is load-bearing: a deterministic choice invites adversarial
// eviction cycles. An exhausted chain means the table is saturated under the
// current hash assignment, and the engine escalates: if the live count is at
// or beyond the grow threshold it doubles the table and reinserts everything;
// otherwise it re-seeds the hash functions and rehashes every entry in place,
// which breaks the cycle with high probability because each re-seed draws an
// independent assignment.
//
// # Failure semantics
//
// Insertion is transactional. If growing the table is required and the
// allocator cannot deliver the larger arrays, the engine rolls the table
// back to its pre-call key set and reports failure; the table is never left
// holding a partial insertion. Resize likewise either completes or leaves
// the original arrays untouched.
//
// A Table is NOT goroutine-safe; callers serialize access externally.
package cuckoo

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"strings"

	"github.com/ericm1024/libstruct-sub001/internal/entropy"
)

const (
	debug = false

	// nWays is the number of independent bucket arrays. The algorithm
	// generalizes to more ways, but two keeps point queries at two cache
	// lines and is the classic cuckoo construction.
	nWays = 2

	// slotsPerBucket is chosen so a bucket's key/value payload with 8-byte
	// values occupies a single 64-byte cache line.
	slotsPerBucket = 4

	// chaseConstant scales the eviction-chain budget. Chains in random
	// bipartite cuckoo graphs have logarithmic expected length; 4x that is
	// empirically enough to make spurious escalations rare.
	chaseConstant = 4
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	// slotInvalid marks an occupied slot whose bucket assignment is stale
	// under freshly drawn seeds. It appears only while a rehash is running.
	slotInvalid
)

// slot is one key/value storage unit. The state tag lives in the bucket's
// states array rather than in stolen low bits of the value, so values carry
// no alignment precondition.
type slot[V any] struct {
	key   uint64
	value V
}

// Bucket is a fixed-capacity group of slots addressed as a unit. Scans are
// plain linear loops: the whole bucket is a cache line, so no intra-bucket
// hashing pays for itself.
type Bucket[V any] struct {
	states [slotsPerBucket]slotState
	slots  [slotsPerBucket]slot[V]
}

// way is one bucket array together with the seed for its hash function.
// len(buckets) is a power of two; mask is len(buckets)-1.
type way[V any] struct {
	buckets []Bucket[V]
	seed    uint64
	mask    uint64
}

// Stats are monotonic counters describing how often the table had to fall
// back to its recovery machinery. They are observability, not correctness.
type Stats struct {
	// Resizes counts completed grow and shrink operations.
	Resizes uint64
	// Rehashes counts completed rehash recoveries.
	Rehashes uint64
	// RehashRetries is the cumulative number of rehash restarts across all
	// rehashes.
	RehashRetries uint64
	// MaxRehashRetries is the largest number of restarts observed in any
	// single rehash.
	MaxRehashRetries uint64
}

// SeedSource reports how the table's random generator was seeded.
type SeedSource uint8

const (
	// SeedOS means construction drew its seed from the OS entropy source.
	SeedOS SeedSource = iota
	// SeedFallback means the OS source was unavailable and a degraded
	// clock-and-address-derived seed was used instead.
	SeedFallback
	// SeedManual means the caller supplied the generator via WithRand or
	// WithSeed.
	SeedManual
)

func (s SeedSource) String() string {
	switch s {
	case SeedOS:
		return "os"
	case SeedFallback:
		return "fallback"
	case SeedManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Table is a 2-way cuckoo hash table mapping uint64 keys to values of type V.
// The table stores values but never interprets them; on Close it releases
// only its own bucket arrays. The zero value is not usable; construct with
// New.
type Table[V any] struct {
	ways          [nWays]way[V]
	bucketsPerWay int
	// used is the number of live entries. It equals the number of occupied
	// slots across all ways at every point where no insertion or rehash is
	// in flight.
	used       int
	hash       func(key, seed uint64) uint64
	rng        *rand.Rand
	allocator  Allocator[V]
	seedSource SeedSource
	stats      Stats
}

// New constructs an empty table sized for roughly capacityHint entries. A
// hint of zero gets the minimum geometry. New fails only when the allocator
// cannot deliver the initial bucket arrays.
func New[V any](capacityHint int, opts ...Option[V]) (*Table[V], error) {
	t := &Table[V]{
		hash:      defaultHash,
		allocator: defaultAllocator[V]{},
	}
	for _, op := range opts {
		op.apply(t)
	}
	if t.rng == nil {
		seed, src := entropy.Seed()
		t.rng = rand.New(rand.NewPCG(seed, entropy.Mix64(seed)))
		if src == entropy.SourceOS {
			t.seedSource = SeedOS
		} else {
			t.seedSource = SeedFallback
		}
	}

	bpw := bucketsFor(capacityHint)
	for i := range t.ways {
		b := t.allocator.AllocBuckets(bpw)
		if b == nil {
			for j := 0; j < i; j++ {
				t.allocator.FreeBuckets(t.ways[j].buckets)
				t.ways[j].buckets = nil
			}
			return nil, ErrAllocFailed
		}
		t.ways[i] = way[V]{buckets: b, seed: t.rng.Uint64(), mask: uint64(bpw) - 1}
	}
	t.bucketsPerWay = bpw
	t.checkInvariants()
	return t, nil
}

// bucketsFor converts a capacity hint into a power-of-two buckets-per-way.
func bucketsFor(hint int) int {
	if hint <= 0 {
		return 1
	}
	n := (hint + nWays*slotsPerBucket - 1) / (nWays * slotsPerBucket)
	return 1 << bits.Len(uint(n-1))
}

// Close releases the table's bucket arrays back to its allocator. Values
// are caller-owned and are not touched. Close is idempotent; using the table
// after Close is invalid.
func (t *Table[V]) Close() {
	if t.allocator == nil {
		return
	}
	for i := range t.ways {
		if t.ways[i].buckets != nil {
			t.allocator.FreeBuckets(t.ways[i].buckets)
			t.ways[i].buckets = nil
		}
	}
	t.used = 0
	t.allocator = nil
}

// Exists reports whether key is present.
func (t *Table[V]) Exists(key uint64) bool {
	for w := 0; w < nWays; w++ {
		if _, ok := t.nest(w, key).scan(key); ok {
			return true
		}
	}
	return false
}

// Get returns the value stored for key, with ok=false if key is absent.
func (t *Table[V]) Get(key uint64) (value V, ok bool) {
	for w := 0; w < nWays; w++ {
		b := t.nest(w, key)
		if i, ok := b.scan(key); ok {
			return b.slots[i].value, true
		}
	}
	return value, false
}

// Remove deletes key and returns the value it held, with ok=false if key was
// absent. Removing an absent key is not an error.
func (t *Table[V]) Remove(key uint64) (value V, ok bool) {
	for w := 0; w < nWays; w++ {
		b := t.nest(w, key)
		if i, ok := b.scan(key); ok {
			value = b.slots[i].value
			b.clear(i)
			t.used--
			t.checkInvariants()
			return value, true
		}
	}
	return value, false
}

// All calls yield for each entry until yield returns false. No iteration
// order is guaranteed; in particular the order changes across resizes and
// rehashes. The table must not be mutated during iteration.
func (t *Table[V]) All(yield func(key uint64, value V) bool) {
	for wi := range t.ways {
		bs := t.ways[wi].buckets
		for bi := range bs {
			b := &bs[bi]
			for si, st := range b.states {
				if st != slotOccupied {
					continue
				}
				if !yield(b.slots[si].key, b.slots[si].value) {
					return
				}
			}
		}
	}
}

// Len returns the number of live entries.
func (t *Table[V]) Len() int {
	return t.used
}

// Cap returns the total number of slots across all ways.
func (t *Table[V]) Cap() int {
	return nWays * slotsPerBucket * t.bucketsPerWay
}

// Stats returns a snapshot of the table's recovery counters.
func (t *Table[V]) Stats() Stats {
	return t.stats
}

// SeedSource reports how the table's random generator was seeded at
// construction.
func (t *Table[V]) SeedSource() SeedSource {
	return t.seedSource
}

// nest returns key's single candidate bucket in way w.
func (t *Table[V]) nest(w int, key uint64) *Bucket[V] {
	return t.nestOf(&t.ways, w, key)
}

// nestOf is nest against an arbitrary set of ways; resize migration uses it
// to address the not-yet-installed arrays.
func (t *Table[V]) nestOf(ws *[nWays]way[V], w int, key uint64) *Bucket[V] {
	wy := &ws[w]
	return &wy.buckets[t.hash(key, wy.seed)&wy.mask]
}

// growThreshold is the live-entry count at which an exhausted eviction chain
// escalates to a grow rather than a rehash. One slot per bucket is reserved
// as eviction headroom.
func (t *Table[V]) growThreshold() int {
	return nWays * (slotsPerBucket - 1) * t.bucketsPerWay
}

// maxChase is the eviction-chain budget for the current size:
// chaseConstant * (floor(log2(used)) + 1).
func (t *Table[V]) maxChase() int {
	n := bits.Len64(uint64(t.used))
	if n == 0 {
		n = 1
	}
	return chaseConstant * n
}

func (t *Table[V]) checkInvariants() {
	if invariants {
		seen := make(map[uint64]struct{}, t.used)
		used := 0
		for wi := range t.ways {
			if len(t.ways[wi].buckets) != t.bucketsPerWay {
				panic(fmt.Sprintf("invariant failed: way %d has %d buckets, want %d\n%s",
					wi, len(t.ways[wi].buckets), t.bucketsPerWay, t.debugString()))
			}
			for bi := range t.ways[wi].buckets {
				b := &t.ways[wi].buckets[bi]
				for si, st := range b.states {
					switch st {
					case slotEmpty:
					case slotOccupied:
						used++
						key := b.slots[si].key
						if _, dup := seen[key]; dup {
							panic(fmt.Sprintf("invariant failed: key %d occupies multiple slots\n%s",
								key, t.debugString()))
						}
						seen[key] = struct{}{}
						if !t.Exists(key) {
							panic(fmt.Sprintf("invariant failed: key %d at way=%d bucket=%d slot=%d is unreachable\n%s",
								key, wi, bi, si, t.debugString()))
						}
					case slotInvalid:
						panic(fmt.Sprintf("invariant failed: stale slot outside rehash at way=%d bucket=%d slot=%d\n%s",
							wi, bi, si, t.debugString()))
					default:
						panic(fmt.Sprintf("invariant failed: unknown slot state %d", st))
					}
				}
			}
		}
		if used != t.used {
			panic(fmt.Sprintf("invariant failed: found %d occupied slots, but used count is %d\n%s",
				used, t.used, t.debugString()))
		}
	}
}

func (t *Table[V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "buckets-per-way=%d used=%d cap=%d\n", t.bucketsPerWay, t.used, t.Cap())
	for wi := range t.ways {
		fmt.Fprintf(&buf, "way %d (seed=%016x):\n", wi, t.ways[wi].seed)
		for bi := range t.ways[wi].buckets {
			b := &t.ways[wi].buckets[bi]
			fmt.Fprintf(&buf, "  %4d:", bi)
			for si, st := range b.states {
				switch st {
				case slotEmpty:
					fmt.Fprintf(&buf, " [empty]")
				case slotOccupied:
					fmt.Fprintf(&buf, " [%d]", b.slots[si].key)
				case slotInvalid:
					fmt.Fprintf(&buf, " [%d!]", b.slots[si].key)
				}
			}
			fmt.Fprintf(&buf, "\n")
		}
	}
	return buf.String()
}
