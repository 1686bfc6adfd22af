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
	"errors"
	"math/rand/v2"

	"github.com/ericm1024/libstruct-sub001/internal/entropy"
	"github.com/ericm1024/libstruct-sub001/internal/hashx"
)

// ErrAllocFailed is returned by New when the allocator cannot deliver the
// initial bucket arrays. Nothing is constructed in that case.
var ErrAllocFailed = errors.New("cuckoo: bucket array allocation failed")

func defaultHash(key, seed uint64) uint64 {
	return hashx.Sum64(key, seed)
}

// Option configures a Table while it is being created.
type Option[V any] interface {
	apply(t *Table[V])
}

type hashOption[V any] struct {
	hash func(key, seed uint64) uint64
}

func (op hashOption[V]) apply(t *Table[V]) { t.hash = op.hash }

// WithHash overrides the keyed hash function. The function must have good
// avalanche behavior over its 64-bit output and must vary with the seed;
// the table relies on re-seeding to break eviction cycles.
func WithHash[V any](hash func(key, seed uint64) uint64) Option[V] {
	return hashOption[V]{hash}
}

type randOption[V any] struct {
	rng *rand.Rand
}

func (op randOption[V]) apply(t *Table[V]) {
	t.rng = op.rng
	t.seedSource = SeedManual
}

// WithRand supplies the random generator the table uses for seeds and
// eviction victims, bypassing OS entropy. Intended for deterministic tests.
func WithRand[V any](rng *rand.Rand) Option[V] {
	return randOption[V]{rng}
}

// WithSeed is WithRand with a generator seeded from the given value.
func WithSeed[V any](seed uint64) Option[V] {
	return randOption[V]{rand.New(rand.NewPCG(seed, entropy.Mix64(seed)))}
}

// Allocator supplies and releases the table's bucket arrays. The default
// allocator uses Go's builtin make and lets the GC reclaim memory; a custom
// allocator can place buckets in cache-line-aligned or manually managed
// memory, in which case Table.Close must be called to get FreeBuckets
// invoked.
type Allocator[V any] interface {
	// AllocBuckets returns a zeroed bucket array of length n, or nil when
	// the allocation cannot be satisfied.
	AllocBuckets(n int) []Bucket[V]

	// FreeBuckets releases an array previously returned by AllocBuckets.
	FreeBuckets(buckets []Bucket[V])
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) AllocBuckets(n int) []Bucket[V] {
	return make([]Bucket[V], n)
}

func (defaultAllocator[V]) FreeBuckets(buckets []Bucket[V]) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(t *Table[V]) { t.allocator = op.allocator }

// WithAllocator specifies the Allocator to use for the table's bucket
// arrays.
func WithAllocator[V any](allocator Allocator[V]) Option[V] {
	return allocatorOption[V]{allocator}
}
