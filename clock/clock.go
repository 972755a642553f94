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

// Package clock provides a cached, tick-granularity time source for
// the worker loop's expiry checks: one read of the wall clock per
// tick rather than a syscall per request.
package clock

import "github.com/agilira/go-timecache"

// Clock supplies the current time in whole seconds since the Unix
// epoch, the unit item expiry timestamps are expressed in. Modeled
// on agilira-balios's TimeProvider: a single fast, allocation-free
// accessor an engine holds instead of calling time.Now directly.
type Clock interface {
	// Now returns the clock's current cached value in seconds.
	Now() uint32
}

// TickClock caches the wall-clock second and only advances it when
// Tick is called explicitly by the owning worker loop. It is not safe
// for concurrent use; callers running multiple workers should give
// each its own TickClock or synchronize Tick externally.
type TickClock struct {
	seconds uint32
}

// NewTickClock returns a TickClock seeded from the system clock via
// go-timecache's cached nanosecond reader.
func NewTickClock() *TickClock {
	tc := &TickClock{}
	tc.Tick()
	return tc
}

// Now returns the cached second, satisfying Clock.
func (c *TickClock) Now() uint32 {
	return c.seconds
}

// Tick refreshes the cached second from the system clock. serveConn
// calls it once for every request it reads, so requests that arrive
// pipelined in one read are not grouped under a single tick; between
// Tick calls every expiry check sees the same cached second.
func (c *TickClock) Tick() {
	c.seconds = uint32(timecache.CachedTimeNano() / int64(1e9))
}

// Func adapts a plain func() uint32 to the Clock interface, primarily
// for tests that want a deterministic or manually advanced clock.
type Func func() uint32

// Now calls the wrapped function, satisfying Clock.
func (f Func) Now() uint32 { return f() }
