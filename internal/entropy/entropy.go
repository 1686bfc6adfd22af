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

// Package entropy seeds pseudo-random generators. The OS entropy source is
// preferred; when it is unavailable a degraded seed is derived from the wall
// clock, the process id, and a stack address. Callers are always told which
// source was used so the degraded path is observable rather than silent.
package entropy

import (
	"os"
	"time"
	"unsafe"
)

// Source identifies where a seed came from.
type Source uint8

const (
	// SourceOS means the seed was drawn from the operating system's entropy
	// source.
	SourceOS Source = iota
	// SourceFallback means the OS source was unavailable and the seed was
	// derived from the clock, the pid, and address-space layout.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceOS:
		return "os"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Seed returns a 64-bit seed and the source it was drawn from.
func Seed() (uint64, Source) {
	if s, ok := osSeed(); ok {
		return s, SourceOS
	}
	return fallbackSeed(), SourceFallback
}

func fallbackSeed() uint64 {
	var probe byte
	s := uint64(time.Now().UnixNano())
	s ^= uint64(os.Getpid()) << 32
	s ^= uint64(uintptr(unsafe.Pointer(&probe)))
	return Mix64(s)
}

// Mix64 is the splitmix64 finalizer. It spreads whatever structure the raw
// seed material has across all 64 bits.
func Mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
