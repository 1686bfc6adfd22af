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

package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoFalseNegatives(t *testing.T) {
	f := NewSeeded(1000, 0.01, 1, 2)
	for k := uint64(0); k < 1000; k++ {
		f.Add(k)
	}
	require.Equal(t, 1000, f.Len())
	for k := uint64(0); k < 1000; k++ {
		require.True(t, f.MayContain(k), "false negative for %d", k)
	}
}

func TestFalsePositiveRate(t *testing.T) {
	const n = 10000
	f := NewSeeded(n, 0.01, 3, 4)
	for k := uint64(0); k < n; k++ {
		f.Add(k)
	}

	fp := 0
	const probes = 100000
	for k := uint64(n); k < n+probes; k++ {
		if f.MayContain(k) {
			fp++
		}
	}
	rate := float64(fp) / probes
	// Target is 1%; allow a generous margin for hash variance.
	require.Less(t, rate, 0.03, "false positive rate %f", rate)
}

func TestEmptyFilter(t *testing.T) {
	f := NewSeeded(100, 0.01, 5, 6)
	for k := uint64(0); k < 1000; k++ {
		require.False(t, f.MayContain(k))
	}
}

func TestReset(t *testing.T) {
	f := NewSeeded(100, 0.01, 7, 8)
	for k := uint64(0); k < 100; k++ {
		f.Add(k)
	}
	f.Reset()
	require.Equal(t, 0, f.Len())
	for k := uint64(0); k < 100; k++ {
		require.False(t, f.MayContain(k))
	}
}

func TestGeometry(t *testing.T) {
	f := NewSeeded(1000, 0.01, 9, 10)
	// ~9.59 bits per key and ~7 hashes for a 1% filter.
	require.Greater(t, f.Bits(), 9*1000)
	require.Less(t, f.Bits(), 11*1000)
	require.Equal(t, 7, f.Hashes())

	// Degenerate parameters are clamped, not rejected.
	g := NewSeeded(0, 2.0, 0, 0)
	require.GreaterOrEqual(t, g.Bits(), 64)
	require.GreaterOrEqual(t, g.Hashes(), 1)
}

func TestSeededReproducible(t *testing.T) {
	a := NewSeeded(100, 0.01, 11, 12)
	b := NewSeeded(100, 0.01, 11, 12)
	for k := uint64(0); k < 100; k++ {
		a.Add(k)
		b.Add(k)
	}
	for k := uint64(0); k < 10000; k++ {
		require.Equal(t, a.MayContain(k), b.MayContain(k))
	}
}
