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

// Ref is an opaque handle to a slot: an index plus the slot's
// generation at the time the handle was issued. A Ref read back after
// the slot has been deleted or evicted (generation advanced) is
// stale; the table detects this and treats it as a miss rather than
// reading wrong data, per design note 9.
type Ref struct {
	idx int32
	gen uint32
}

func (r Ref) valid() bool {
	return r.idx >= 0
}

var noRef = Ref{idx: -1}
