// Copyright (c) 2026 The Slimcache Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cuckoo

import "github.com/cespare/xxhash/v2"

// avalanche-mix constants, scaled up to 64 bits so a single base hash
// can be cheaply rehashed into d independent candidate positions.
const (
	mix1 uint64 = 0xff51afd7ed558ccd
	mix2 uint64 = 0xc4ceb9fe1a85ec53
)

func avalanche(h uint64) uint64 {
	h ^= h >> 33
	h *= mix1
	h ^= h >> 33
	h *= mix2
	h ^= h >> 33
	return h
}

// baseHash is the single high-quality 64-bit hash over an
// arbitrary-length byte key.
func baseHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// positions computes the d candidate slot indices for key: a single
// base hash split into d independent positions. Each seed avalanches
// the base hash differently so the d positions behave as if from
// independent hash functions.
func positions(key []byte, seeds []uint64, tableSize int) []int {
	h := baseHash(key)
	pos := make([]int, len(seeds))
	for i, seed := range seeds {
		pos[i] = int(avalanche(h^seed) % uint64(tableSize))
	}
	return pos
}
