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

// Package bloom implements a bloom filter over 64-bit keys: a probabilistic
// set that never reports a false negative and reports false positives at a
// configurable rate. The k probe positions are derived from two seeded
// hashes by double hashing (Kirsch-Mitzenmacher), so only two hash
// evaluations are paid per operation regardless of k.
//
// A Filter is NOT goroutine-safe.
package bloom

import (
	"math"

	"github.com/ericm1024/libstruct-sub001/internal/entropy"
	"github.com/ericm1024/libstruct-sub001/internal/hashx"
)

// Filter is a bloom filter sized for an expected number of keys and a target
// false-positive rate.
type Filter struct {
	bits  []uint64
	nbits uint64
	k     int
	seed1 uint64
	seed2 uint64
	n     int
}

// New returns a filter sized for n expected keys at the given false-positive
// rate, with hash seeds drawn from the system entropy source.
func New(n int, fpRate float64) *Filter {
	s1, _ := entropy.Seed()
	s2, _ := entropy.Seed()
	return NewSeeded(n, fpRate, s1, s2)
}

// NewSeeded is New with caller-chosen hash seeds, for reproducible filters.
func NewSeeded(n int, fpRate float64, seed1, seed2 uint64) *Filter {
	if n < 1 {
		n = 1
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = 0.01
	}
	// m = -n ln p / (ln 2)^2, k = (m/n) ln 2: the standard optimum.
	m := uint64(math.Ceil(-float64(n) * math.Log(fpRate) / (math.Ln2 * math.Ln2)))
	if m < 64 {
		m = 64
	}
	k := int(math.Round(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}
	return &Filter{
		bits:  make([]uint64, (m+63)/64),
		nbits: m,
		k:     k,
		seed1: seed1,
		seed2: seed2,
	}
}

// Add inserts key into the filter.
func (f *Filter) Add(key uint64) {
	h1 := hashx.Sum64(key, f.seed1)
	h2 := hashx.Sum64(key, f.seed2) | 1
	for i := 0; i < f.k; i++ {
		idx := (h1 + uint64(i)*h2) % f.nbits
		f.bits[idx>>6] |= 1 << (idx & 63)
	}
	f.n++
}

// MayContain reports whether key might be in the set. False means key was
// definitely never added; true is probabilistic.
func (f *Filter) MayContain(key uint64) bool {
	h1 := hashx.Sum64(key, f.seed1)
	h2 := hashx.Sum64(key, f.seed2) | 1
	for i := 0; i < f.k; i++ {
		idx := (h1 + uint64(i)*h2) % f.nbits
		if f.bits[idx>>6]&(1<<(idx&63)) == 0 {
			return false
		}
	}
	return true
}

// Len returns the number of Add calls since construction or the last Reset.
func (f *Filter) Len() int {
	return f.n
}

// Bits returns the size of the bit array.
func (f *Filter) Bits() int {
	return int(f.nbits)
}

// Hashes returns the number of probe positions per key.
func (f *Filter) Hashes() int {
	return f.k
}

// Reset clears the filter, keeping its geometry and seeds.
func (f *Filter) Reset() {
	for i := range f.bits {
		f.bits[i] = 0
	}
	f.n = 0
}
