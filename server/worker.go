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

package server

import (
	"net"

	"github.com/sonic182/slimcache/clock"
	"github.com/sonic182/slimcache/cuckoo"
	"github.com/sonic182/slimcache/logging"
	"github.com/sonic182/slimcache/memcache"
	"github.com/sonic182/slimcache/metrics"
)

// Worker is one event-loop goroutine that owns an exclusive cuckoo
// table and processor: the table is accessed only from its owning
// worker goroutine, so no storage locking is required. Accepted
// connections are handed to a Worker over conns, a buffered channel
// standing in for a ring-buffer queue plus a wakeup write, the same
// handoff original_source/src/util/bb_core_server.c's
// _tcp_accept/ring_array_push/_server_pipe_write sequence performs.
type Worker struct {
	table   *cuckoo.Table
	proc    *memcache.Processor
	clock   *clock.TickClock
	conns   chan net.Conn
	metrics *metrics.Metrics
	log     logging.Logger
}

// NewWorker builds a Worker with its own storage engine, sized per
// cfg. log defaults to logging.NoOpLogger{} when nil.
func NewWorker(cfg cuckoo.Config, queueDepth int, log logging.Logger) *Worker {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	tc := clock.NewTickClock()
	m := metrics.New()
	table := cuckoo.NewTable(cfg, tc.Now, m)
	return &Worker{
		table:   table,
		proc:    memcache.NewProcessor(table, m),
		clock:   tc,
		conns:   make(chan net.Conn, queueDepth),
		metrics: m,
		log:     log,
	}
}

// Metrics returns the worker's counter set, for the /metrics endpoint
// and STATS handler to share.
func (w *Worker) Metrics() *metrics.Metrics { return w.metrics }

// Submit hands a freshly-accepted connection to this worker's queue.
// It blocks if the queue is full, applying backpressure to the
// acceptor rather than dropping connections.
func (w *Worker) Submit(conn net.Conn) {
	w.conns <- conn
}

// Run is the worker's event loop: pull a connection off the queue,
// serve it completely, then move to the next. Run blocks until conns
// is closed. The clock is ticked once per request inside serveConn,
// not once per connection dequeue, so a persistent connection that
// outlives many ticks still observes expiries as they fall due.
func (w *Worker) Run() {
	for conn := range w.conns {
		w.log.Debug("serving connection", "remote", conn.RemoteAddr())
		serveConn(conn, w.proc, w.clock)
	}
}

// Close stops accepting new connections for this worker.
func (w *Worker) Close() {
	close(w.conns)
}
