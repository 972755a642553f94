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

// Package memcache implements the command processor (C4): dispatch of
// a parsed Request onto the cuckoo storage engine, and composition of
// memcache-ASCII response frames. It is grounded on original_source's
// bb_process.c, generalized from pelikan slimcache's fixed
// integer-keyed item model to the byte-string keys and typed Value
// union of this table.
package memcache

// Verb names the command a Request carries.
type Verb uint8

const (
	VerbGet Verb = iota
	VerbGets
	VerbSet
	VerbAdd
	VerbReplace
	VerbCas
	VerbDelete
	VerbIncr
	VerbDecr
	VerbStats
	VerbQuit
)

// Request is the parsed command handed to the processor by the codec.
// Keys/Value alias caller-owned buffer memory and are valid only for
// the duration of the Process call that receives them.
type Request struct {
	Verb    Verb
	Keys    [][]byte // non-empty except for STATS/QUIT; only GET/GETS use more than Keys[0]
	Value   []byte   // raw value bytes for SET/ADD/REPLACE/CAS
	Flags   uint32
	Expiry  uint32
	Delta   uint64 // INCR/DECR
	Cas     uint64 // CAS verb's comparison token
	NoReply bool
}

// Key returns the request's sole key, for verbs that only ever use
// Keys[0].
func (r *Request) Key() []byte {
	return r.Keys[0]
}
