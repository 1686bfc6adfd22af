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

// Package hashx provides the keyed 64-bit hash shared by the hash-based
// containers in this module. The hash is xxhash computed over the
// little-endian encoding of (seed, key), so distinct seeds yield independent
// hash functions over the same key space.
package hashx

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Sum64 returns a 64-bit hash of key under the given seed. Outputs for
// different seeds are statistically independent, which is what lets a
// multi-way table re-seed itself out of a stuck eviction cycle.
func Sum64(key, seed uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], seed)
	binary.LittleEndian.PutUint64(b[8:16], key)
	return xxhash.Sum64(b[:])
}
