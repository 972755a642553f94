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

// pool is the fixed-size array of slots backing a Table (C1). It owns
// all item storage; the table only ever hands out indices into it.
// pool never reallocates past construction: N is fixed at startup.
type pool struct {
	slots  []item
	keyMax int
	valMax int
}

func newPool(n, keyMax, valMax int) *pool {
	p := &pool{
		slots:  make([]item, n),
		keyMax: keyMax,
		valMax: valMax,
	}
	for i := range p.slots {
		p.slots[i].key = make([]byte, 0, keyMax)
		p.slots[i].valStr = make([]byte, 0, valMax)
	}
	return p
}

func (p *pool) size() int {
	return len(p.slots)
}

func (p *pool) at(idx int) *item {
	return &p.slots[idx]
}

// freeOrExpired reports whether slot idx can be claimed by a new
// insert: either unoccupied, or occupied by an item that has expired
// and can be lazily reclaimed, on lookup or opportunistically during
// displacement.
func (p *pool) freeOrExpired(idx int, now uint32) bool {
	it := &p.slots[idx]
	return !it.occupied || it.expired(now)
}
