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

// item is a single slot of the pool: key + value + metadata. Key and
// value backing arrays are allocated once at pool creation time and
// reused in place on every store, so a slot never grows past its
// configured key/value footprint.
type item struct {
	key      []byte // len(key) <= cap(key) == KeyMax
	valType  ValType
	valInt   uint64
	valStr   []byte // len(valStr) <= cap(valStr) == ValMax, meaningful iff valType == ValStr
	flags    uint32
	expiry   uint32 // absolute seconds on the table's clock (Unix seconds with TickClock); 0 = never
	cas      uint64
	gen      uint32 // bumped on every delete/evict of this slot
	occupied bool
}

// value reconstructs the tagged Value currently stored in the slot.
func (it *item) value() Value {
	if it.valType == ValInt {
		return Value{Type: ValInt, Int: it.valInt}
	}
	return Value{Type: ValStr, Str: it.valStr}
}

// setValue stores v into the slot's preallocated backing arrays
// without growing them. Caller must have already checked v fits.
func (it *item) setValue(v Value) {
	it.valType = v.Type
	if v.Type == ValInt {
		it.valInt = v.Int
		it.valStr = it.valStr[:0]
		return
	}
	it.valInt = 0
	it.valStr = append(it.valStr[:0], v.Str...)
}

// setKey copies k into the slot's preallocated key array.
func (it *item) setKey(k []byte) {
	it.key = append(it.key[:0], k...)
}

// matches reports whether the occupied slot holds key k.
func (it *item) matches(k []byte) bool {
	return it.occupied && string(it.key) == string(k)
}

// expired reports whether the slot's item is logically absent at
// time "now" (seconds).
func (it *item) expired(now uint32) bool {
	return it.expiry != 0 && it.expiry <= now
}

// View is the read-only snapshot of an item's visible fields, handed
// back to the command processor by Lookup/ItemAt. Key and Value.Str
// alias the slot's backing arrays and are only valid until the next
// mutation of that slot; callers must not retain a View past the
// request that produced it.
type View struct {
	Key    []byte
	Value  Value
	Flags  uint32
	Expiry uint32
	Cas    uint64
}

func (it *item) view() View {
	return View{
		Key:    it.key,
		Value:  it.value(),
		Flags:  it.flags,
		Expiry: it.expiry,
		Cas:    it.cas,
	}
}
