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
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
)

func benchSizes(f func(b *testing.B, n int)) func(*testing.B) {
	var cases = []int{
		6, 12, 18, 24, 30,
		64,
		128,
		256,
		512,
		1024,
		2048,
		4096,
		8192,
		1 << 16,
	}

	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n) })
		}
	}
}

func genKeys(start, end int) []uint64 {
	keys := make([]uint64, end-start)
	for i := range keys {
		// Spread the keys; sequential integers are unrealistically kind to
		// the low hash bits.
		keys[i] = uint64(start+i) * 0x9e3779b97f4a7c15
	}
	return keys
}

func BenchmarkGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(func(b *testing.B, n int) {
		m := make(map[uint64]uint64, n)
		keys := genKeys(0, n)
		for _, k := range keys {
			m[k] = k
		}
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = m[keys[i%n]]
		}
		cs.Stop()
	}))
	b.Run("impl=cuckooTable", benchSizes(func(b *testing.B, n int) {
		m, _ := New[uint64](n)
		defer m.Close()
		keys := genKeys(0, n)
		for _, k := range keys {
			m.Insert(k, k)
		}
		cs := perfbench.Open(b)
		b.ResetTimer()
		var ok bool
		for i := 0; i < b.N; i++ {
			_, ok = m.Get(keys[i%n])
		}
		cs.Stop()
		_ = ok
	}))
}

func BenchmarkGetMiss(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(func(b *testing.B, n int) {
		m := make(map[uint64]uint64, n)
		keys := genKeys(0, n)
		miss := genKeys(n, 2*n)
		for _, k := range keys {
			m[k] = k
		}
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = m[miss[i%n]]
		}
		cs.Stop()
	}))
	b.Run("impl=cuckooTable", benchSizes(func(b *testing.B, n int) {
		m, _ := New[uint64](n)
		defer m.Close()
		keys := genKeys(0, n)
		miss := genKeys(n, 2*n)
		for _, k := range keys {
			m.Insert(k, k)
		}
		cs := perfbench.Open(b)
		b.ResetTimer()
		var ok bool
		for i := 0; i < b.N; i++ {
			_, ok = m.Get(miss[i%n])
		}
		cs.Stop()
		_ = ok
	}))
}

func BenchmarkInsertGrow(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(func(b *testing.B, n int) {
		keys := genKeys(0, n)
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			m := make(map[uint64]uint64)
			for _, k := range keys {
				m[k] = k
			}
		}
		cs.Stop()
	}))
	b.Run("impl=cuckooTable", benchSizes(func(b *testing.B, n int) {
		keys := genKeys(0, n)
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			m, _ := New[uint64](0)
			for _, k := range keys {
				m.Insert(k, k)
			}
			m.Close()
		}
		cs.Stop()
	}))
}

func BenchmarkInsertPreAllocate(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(func(b *testing.B, n int) {
		keys := genKeys(0, n)
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			m := make(map[uint64]uint64, n)
			for _, k := range keys {
				m[k] = k
			}
		}
		cs.Stop()
	}))
	b.Run("impl=cuckooTable", benchSizes(func(b *testing.B, n int) {
		keys := genKeys(0, n)
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			m, _ := New[uint64](n)
			for _, k := range keys {
				m.Insert(k, k)
			}
			m.Close()
		}
		cs.Stop()
	}))
}

func BenchmarkInsertRemove(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(func(b *testing.B, n int) {
		m := make(map[uint64]uint64, n)
		keys := genKeys(0, n)
		for _, k := range keys {
			m[k] = k
		}
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k := keys[i%n]
			delete(m, k)
			m[k] = k
		}
		cs.Stop()
	}))
	b.Run("impl=cuckooTable", benchSizes(func(b *testing.B, n int) {
		m, _ := New[uint64](n)
		defer m.Close()
		keys := genKeys(0, n)
		for _, k := range keys {
			m.Insert(k, k)
		}
		cs := perfbench.Open(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k := keys[i%n]
			m.Remove(k)
			m.Insert(k, k)
		}
		cs.Stop()
	}))
}
