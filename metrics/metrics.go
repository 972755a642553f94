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

// Package metrics implements a flat counter surface (C5): per-verb
// invocation, per-outcome, per-key hit/miss, and storage-engine event
// counters, all 64-bit and monotonic within a process lifetime.
package metrics

import "sync/atomic"

// StorageRecorder is the subset of Metrics the cuckoo storage engine
// updates directly, kept as a narrow interface so cuckoo does not
// need the rest of the command-processor counter surface.
type StorageRecorder interface {
	IncInsertions()
	IncEvictions()
	AddDisplacementHops(n int)
}

// Metrics is the process-wide counter set. Every field is updated
// with sync/atomic so it is safe to read from an HTTP /metrics handler
// running on a goroutine other than the worker that owns the storage
// engine.
type Metrics struct {
	cmdProcess int64

	cmdGet        int64
	cmdGetKey     int64
	cmdGetKeyHit  int64
	cmdGetKeyMiss int64

	cmdGets        int64
	cmdGetsKey     int64
	cmdGetsKeyHit  int64
	cmdGetsKeyMiss int64

	cmdDelete         int64
	cmdDeleteDeleted  int64
	cmdDeleteNotfound int64

	cmdSet       int64
	cmdSetStored int64
	cmdSetEx     int64

	cmdAdd           int64
	cmdAddStored     int64
	cmdAddNotstored  int64
	cmdAddEx         int64

	cmdReplace          int64
	cmdReplaceStored    int64
	cmdReplaceNotstored int64
	cmdReplaceEx        int64

	cmdCas         int64
	cmdCasStored   int64
	cmdCasExists   int64
	cmdCasNotfound int64
	cmdCasEx       int64

	cmdIncr         int64
	cmdIncrStored   int64
	cmdIncrNotfound int64
	cmdIncrEx       int64

	cmdDecr         int64
	cmdDecrStored   int64
	cmdDecrNotfound int64
	cmdDecrEx       int64

	cmdStats int64
	cmdQuit  int64

	itemInsertions      int64
	itemEvictions       int64
	itemDisplacementHop int64
}

// New returns a zeroed counter set.
func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncProcess() { atomic.AddInt64(&m.cmdProcess, 1) }

func (m *Metrics) IncGet()        { atomic.AddInt64(&m.cmdGet, 1) }
func (m *Metrics) IncGetKey()     { atomic.AddInt64(&m.cmdGetKey, 1) }
func (m *Metrics) IncGetKeyHit()  { atomic.AddInt64(&m.cmdGetKeyHit, 1) }
func (m *Metrics) IncGetKeyMiss() { atomic.AddInt64(&m.cmdGetKeyMiss, 1) }

func (m *Metrics) IncGets()        { atomic.AddInt64(&m.cmdGets, 1) }
func (m *Metrics) IncGetsKey()     { atomic.AddInt64(&m.cmdGetsKey, 1) }
func (m *Metrics) IncGetsKeyHit()  { atomic.AddInt64(&m.cmdGetsKeyHit, 1) }
func (m *Metrics) IncGetsKeyMiss() { atomic.AddInt64(&m.cmdGetsKeyMiss, 1) }

func (m *Metrics) IncDelete()         { atomic.AddInt64(&m.cmdDelete, 1) }
func (m *Metrics) IncDeleteDeleted()  { atomic.AddInt64(&m.cmdDeleteDeleted, 1) }
func (m *Metrics) IncDeleteNotfound() { atomic.AddInt64(&m.cmdDeleteNotfound, 1) }

func (m *Metrics) IncSet()       { atomic.AddInt64(&m.cmdSet, 1) }
func (m *Metrics) IncSetStored() { atomic.AddInt64(&m.cmdSetStored, 1) }
func (m *Metrics) IncSetEx()     { atomic.AddInt64(&m.cmdSetEx, 1) }

func (m *Metrics) IncAdd()          { atomic.AddInt64(&m.cmdAdd, 1) }
func (m *Metrics) IncAddStored()    { atomic.AddInt64(&m.cmdAddStored, 1) }
func (m *Metrics) IncAddNotstored() { atomic.AddInt64(&m.cmdAddNotstored, 1) }
func (m *Metrics) IncAddEx()        { atomic.AddInt64(&m.cmdAddEx, 1) }

func (m *Metrics) IncReplace()          { atomic.AddInt64(&m.cmdReplace, 1) }
func (m *Metrics) IncReplaceStored()    { atomic.AddInt64(&m.cmdReplaceStored, 1) }
func (m *Metrics) IncReplaceNotstored() { atomic.AddInt64(&m.cmdReplaceNotstored, 1) }
func (m *Metrics) IncReplaceEx()        { atomic.AddInt64(&m.cmdReplaceEx, 1) }

func (m *Metrics) IncCas()         { atomic.AddInt64(&m.cmdCas, 1) }
func (m *Metrics) IncCasStored()   { atomic.AddInt64(&m.cmdCasStored, 1) }
func (m *Metrics) IncCasExists()   { atomic.AddInt64(&m.cmdCasExists, 1) }
func (m *Metrics) IncCasNotfound() { atomic.AddInt64(&m.cmdCasNotfound, 1) }
func (m *Metrics) IncCasEx()       { atomic.AddInt64(&m.cmdCasEx, 1) }

func (m *Metrics) IncIncr()         { atomic.AddInt64(&m.cmdIncr, 1) }
func (m *Metrics) IncIncrStored()   { atomic.AddInt64(&m.cmdIncrStored, 1) }
func (m *Metrics) IncIncrNotfound() { atomic.AddInt64(&m.cmdIncrNotfound, 1) }
func (m *Metrics) IncIncrEx()       { atomic.AddInt64(&m.cmdIncrEx, 1) }

func (m *Metrics) IncDecr()         { atomic.AddInt64(&m.cmdDecr, 1) }
func (m *Metrics) IncDecrStored()   { atomic.AddInt64(&m.cmdDecrStored, 1) }
func (m *Metrics) IncDecrNotfound() { atomic.AddInt64(&m.cmdDecrNotfound, 1) }
func (m *Metrics) IncDecrEx()       { atomic.AddInt64(&m.cmdDecrEx, 1) }

func (m *Metrics) IncStats() { atomic.AddInt64(&m.cmdStats, 1) }
func (m *Metrics) IncQuit()  { atomic.AddInt64(&m.cmdQuit, 1) }

// IncInsertions records a successful cuckoo-table insert, satisfying
// StorageRecorder.
func (m *Metrics) IncInsertions() { atomic.AddInt64(&m.itemInsertions, 1) }

// IncEvictions records a forced eviction after MAX_HOPS displacement
// attempts failed, satisfying StorageRecorder.
func (m *Metrics) IncEvictions() { atomic.AddInt64(&m.itemEvictions, 1) }

// AddDisplacementHops records how many relocations an insert took
// before it either found a free slot or fell back to eviction,
// satisfying StorageRecorder.
func (m *Metrics) AddDisplacementHops(n int) {
	atomic.AddInt64(&m.itemDisplacementHop, int64(n))
}

// Stat is one name/value pair of a Snapshot, in taxonomy order.
type Stat struct {
	Name  string
	Value int64
}

// Snapshot reads every counter into an ordered slice suitable for
// composing STAT lines for the STATS handler.
func (m *Metrics) Snapshot() []Stat {
	return []Stat{
		{"cmd_process", atomic.LoadInt64(&m.cmdProcess)},

		{"cmd_get", atomic.LoadInt64(&m.cmdGet)},
		{"cmd_get_key", atomic.LoadInt64(&m.cmdGetKey)},
		{"cmd_get_key_hit", atomic.LoadInt64(&m.cmdGetKeyHit)},
		{"cmd_get_key_miss", atomic.LoadInt64(&m.cmdGetKeyMiss)},

		{"cmd_gets", atomic.LoadInt64(&m.cmdGets)},
		{"cmd_gets_key", atomic.LoadInt64(&m.cmdGetsKey)},
		{"cmd_gets_key_hit", atomic.LoadInt64(&m.cmdGetsKeyHit)},
		{"cmd_gets_key_miss", atomic.LoadInt64(&m.cmdGetsKeyMiss)},

		{"cmd_delete", atomic.LoadInt64(&m.cmdDelete)},
		{"cmd_delete_deleted", atomic.LoadInt64(&m.cmdDeleteDeleted)},
		{"cmd_delete_notfound", atomic.LoadInt64(&m.cmdDeleteNotfound)},

		{"cmd_set", atomic.LoadInt64(&m.cmdSet)},
		{"cmd_set_stored", atomic.LoadInt64(&m.cmdSetStored)},
		{"cmd_set_ex", atomic.LoadInt64(&m.cmdSetEx)},

		{"cmd_add", atomic.LoadInt64(&m.cmdAdd)},
		{"cmd_add_stored", atomic.LoadInt64(&m.cmdAddStored)},
		{"cmd_add_notstored", atomic.LoadInt64(&m.cmdAddNotstored)},
		{"cmd_add_ex", atomic.LoadInt64(&m.cmdAddEx)},

		{"cmd_replace", atomic.LoadInt64(&m.cmdReplace)},
		{"cmd_replace_stored", atomic.LoadInt64(&m.cmdReplaceStored)},
		{"cmd_replace_notstored", atomic.LoadInt64(&m.cmdReplaceNotstored)},
		{"cmd_replace_ex", atomic.LoadInt64(&m.cmdReplaceEx)},

		{"cmd_cas", atomic.LoadInt64(&m.cmdCas)},
		{"cmd_cas_stored", atomic.LoadInt64(&m.cmdCasStored)},
		{"cmd_cas_exists", atomic.LoadInt64(&m.cmdCasExists)},
		{"cmd_cas_notfound", atomic.LoadInt64(&m.cmdCasNotfound)},
		{"cmd_cas_ex", atomic.LoadInt64(&m.cmdCasEx)},

		{"cmd_incr", atomic.LoadInt64(&m.cmdIncr)},
		{"cmd_incr_stored", atomic.LoadInt64(&m.cmdIncrStored)},
		{"cmd_incr_notfound", atomic.LoadInt64(&m.cmdIncrNotfound)},
		{"cmd_incr_ex", atomic.LoadInt64(&m.cmdIncrEx)},

		{"cmd_decr", atomic.LoadInt64(&m.cmdDecr)},
		{"cmd_decr_stored", atomic.LoadInt64(&m.cmdDecrStored)},
		{"cmd_decr_notfound", atomic.LoadInt64(&m.cmdDecrNotfound)},
		{"cmd_decr_ex", atomic.LoadInt64(&m.cmdDecrEx)},

		{"cmd_stats", atomic.LoadInt64(&m.cmdStats)},
		{"cmd_quit", atomic.LoadInt64(&m.cmdQuit)},

		{"item_insert", atomic.LoadInt64(&m.itemInsertions)},
		{"item_evict", atomic.LoadInt64(&m.itemEvictions)},
		{"item_displacement_hops", atomic.LoadInt64(&m.itemDisplacementHop)},
	}
}
