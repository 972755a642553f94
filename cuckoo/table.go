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

// Package cuckoo implements a d-ary cuckoo-hash storage engine: a
// fixed-size slot pool (C1) addressed as a d-way hash table (C2), with
// typed value coding (C3). Unlike a growable, integer-keyed cuckoo
// table, this table never grows: once full, inserts displace existing
// items up to MaxHops relocations, then force an eviction.
package cuckoo

import (
	"math/rand"

	"github.com/sonic182/slimcache/metrics"
	"github.com/sonic182/slimcache/slimerr"
)

// Config parameterizes a Table's shape.
type Config struct {
	Slots   int // N, total number of slots (fixed for the table's life)
	D       int // number of candidate positions per key
	MaxHops int // bounded displacement chain length before forced eviction
	KeyMax  int // KEY_MAX, maximum key length in bytes
	ValMax  int // VAL_MAX, maximum rendered value length in bytes
}

// DefaultConfig mirrors a small single-node deployment: modest
// footprint, d=4 candidate positions, and a short displacement bound.
func DefaultConfig() Config {
	return Config{
		Slots:   1 << 16,
		D:       4,
		MaxHops: 8,
		KeyMax:  250,
		ValMax:  1024,
	}
}

// Table is the cuckoo-hash view over a fixed pool of slots (C2).
// Table is not safe for concurrent use: a single worker goroutine is
// assumed to own it exclusively, so no internal locking is done.
type Table struct {
	cfg     Config
	pool    *pool
	seeds   []uint64
	casSeq  uint64
	metrics metrics.StorageRecorder
	now     func() uint32
}

// NewTable builds a Table with cfg.Slots slots, d independent hash
// seeds, and the given clock and metrics recorder. now is called by
// Lookup, ItemAt, Insert and Delete to evaluate expiry (Update does not
// check expiry); callers are expected to
// pass a cached clock with tick granularity rather than a per-request
// time source.
func NewTable(cfg Config, now func() uint32, rec metrics.StorageRecorder) *Table {
	if cfg.D < 1 {
		panic("cuckoo: D must be >= 1")
	}
	t := &Table{
		cfg:     cfg,
		pool:    newPool(cfg.Slots, cfg.KeyMax, cfg.ValMax),
		seeds:   make([]uint64, cfg.D),
		metrics: rec,
		now:     now,
	}
	r := rand.New(rand.NewSource(1))
	for i := range t.seeds {
		t.seeds[i] = r.Uint64()
	}
	return t
}

func (t *Table) positionsFor(key []byte) []int {
	return positions(key, t.seeds, t.pool.size())
}

// Lookup returns a view of the occupied, non-expired slot whose key
// matches, or ok=false. An expired item for key is reclaimed (its slot
// cleared) when Lookup comes across it. O(d).
func (t *Table) Lookup(key []byte) (View, Ref, bool) {
	now := t.now()
	for _, p := range t.positionsFor(key) {
		it := t.pool.at(p)
		if it.matches(key) && it.expired(now) {
			t.clear(p)
			continue
		}
		if it.occupied && !it.expired(now) && it.matches(key) {
			return it.view(), Ref{idx: int32(p), gen: it.gen}, true
		}
	}
	return View{}, noRef, false
}

// ItemAt re-reads the view at ref if it is still live: same
// generation, occupied, not expired. Used by the command processor to
// read the item a preceding Lookup found without re-hashing.
func (t *Table) ItemAt(ref Ref) (View, bool) {
	if !ref.valid() {
		return View{}, false
	}
	it := t.pool.at(int(ref.idx))
	if it.gen != ref.gen || !it.occupied || it.expired(t.now()) {
		return View{}, false
	}
	return it.view(), true
}

// valueFits reports whether v renders within the table's VAL_MAX.
func (t *Table) valueFits(v Value) bool {
	return v.Len() <= t.cfg.ValMax
}

func (t *Table) nextCas() uint64 {
	t.casSeq++
	return t.casSeq
}

// place writes a fresh item into slot idx, bumping its generation and
// assigning a new CAS token.
func (t *Table) place(idx int, key []byte, val Value, flags, expiry uint32) Ref {
	it := t.pool.at(idx)
	wasOccupied := it.occupied
	it.setKey(key)
	it.setValue(val)
	it.flags = flags
	it.expiry = expiry
	it.cas = t.nextCas()
	it.occupied = true
	if wasOccupied {
		it.gen++
	}
	return Ref{idx: int32(idx), gen: it.gen}
}

// relocate copies the live contents of slot src into empty/expired
// slot dst, preserving identity (key, value, flags, expiry, cas) but
// bumping dst's generation since it is a fresh occupancy of that slot.
func (t *Table) relocate(src, dst int) {
	s := t.pool.at(src)
	d := t.pool.at(dst)
	d.setKey(s.key)
	d.valType = s.valType
	d.valInt = s.valInt
	d.valStr = append(d.valStr[:0], s.valStr...)
	d.flags = s.flags
	d.expiry = s.expiry
	d.cas = s.cas
	d.occupied = true
	d.gen++
}

func (t *Table) clear(idx int) {
	it := t.pool.at(idx)
	it.occupied = false
	it.gen++
}

// Insert stores a brand-new record for key (the caller -- the command
// processor -- is responsible for having already called Lookup and
// decided insert vs. update; Table does not collapse the two). It
// assigns a fresh CAS token, displacing existing items up to MaxHops
// hops before forcing an eviction.
func (t *Table) Insert(key []byte, val Value, flags, expiry uint32) (Ref, error) {
	if len(key) > t.cfg.KeyMax {
		return noRef, slimerr.NewValueTooLarge(string(key), len(key), t.cfg.KeyMax)
	}
	if !t.valueFits(val) {
		return noRef, slimerr.NewValueTooLarge(string(key), val.Len(), t.cfg.ValMax)
	}

	now := t.now()
	cands := t.positionsFor(key)

	for _, p := range cands {
		if t.pool.freeOrExpired(p, now) {
			ref := t.place(p, key, val, flags, expiry)
			t.metrics.IncInsertions()
			return ref, nil
		}
	}

	return t.insertWithDisplacement(key, val, flags, expiry, cands), nil
}

// insertWithDisplacement runs the bounded cuckoo displacement chain:
// the victim starts deterministically at candidate index 0, and at
// each hop we try to relocate the victim's own item into one of its
// other candidate positions. If that succeeds the freed slot takes
// the new key. If MaxHops hops pass without finding a free slot, the
// final victim slot is evicted outright.
func (t *Table) insertWithDisplacement(key []byte, val Value, flags, expiry uint32, cands []int) Ref {
	now := t.now()
	victim := cands[0]

	for hop := 0; hop < t.cfg.MaxHops; hop++ {
		vItem := t.pool.at(victim)
		altPositions := t.positionsFor(vItem.key)

		for _, ap := range altPositions {
			if ap == victim {
				continue
			}
			if t.pool.freeOrExpired(ap, now) {
				t.relocate(victim, ap)
				ref := t.place(victim, key, val, flags, expiry)
				t.metrics.AddDisplacementHops(hop + 1)
				t.metrics.IncInsertions()
				return ref
			}
		}

		// No free alternative for the current victim: descend the
		// chain, making its first alternative the next victim to try.
		victim = altPositions[0]
	}

	// MaxHops exhausted with no progress: force an eviction of
	// whichever slot is the current victim.
	t.clear(victim)
	ref := t.place(victim, key, val, flags, expiry)
	t.metrics.AddDisplacementHops(t.cfg.MaxHops)
	t.metrics.IncEvictions()
	t.metrics.IncInsertions()
	return ref
}

// Update rewrites the slot identified by ref in place: new value,
// bumped CAS, and the supplied flags and expiry (a caller keeping the
// old ones passes them back in). It fails with a NotFound error if ref
// is stale and with ValueTooLarge if val does not fit; in both cases
// the prior item is left untouched.
func (t *Table) Update(ref Ref, val Value, flags, expiry uint32) error {
	if !ref.valid() {
		return slimerr.NewNotFound("")
	}
	it := t.pool.at(int(ref.idx))
	if it.gen != ref.gen || !it.occupied {
		return slimerr.NewNotFound("")
	}
	if !t.valueFits(val) {
		return slimerr.NewValueTooLarge(string(it.key), val.Len(), t.cfg.ValMax)
	}
	it.setValue(val)
	it.flags = flags
	it.expiry = expiry
	it.cas = t.nextCas()
	return nil
}

// Delete clears occupancy for key if present, returning whether a
// removal occurred.
func (t *Table) Delete(key []byte) bool {
	now := t.now()
	for _, p := range t.positionsFor(key) {
		it := t.pool.at(p)
		if it.occupied && !it.expired(now) && it.matches(key) {
			t.clear(p)
			return true
		}
	}
	return false
}

// Len reports the slot count configured for the table (not the number
// of occupied slots, which the table does not track separately).
func (t *Table) Len() int {
	return t.pool.size()
}
