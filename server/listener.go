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
	"sync/atomic"

	"github.com/sonic182/slimcache/cuckoo"
	"github.com/sonic182/slimcache/logging"
)

// Listener is the server's acceptor: it owns the TCP socket, accepts
// connections, and hands each accepted socket to one of a fixed pool
// of Workers, round robin.
type Listener struct {
	ln      net.Listener
	workers []*Worker
	next    uint64
}

// NewListener creates workerCount workers, each with its own
// cuckoo.Table built from cfg, and binds addr. log defaults to
// logging.NoOpLogger{} when nil.
func NewListener(addr string, workerCount int, cfg cuckoo.Config, log logging.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if workerCount < 1 {
		workerCount = 1
	}
	workers := make([]*Worker, workerCount)
	for i := range workers {
		workers[i] = NewWorker(cfg, 64, log)
	}
	return &Listener{ln: ln, workers: workers}, nil
}

// Workers returns the listener's worker pool, so callers can start
// each Run() on its own goroutine and share Metrics() with an
// optional /metrics endpoint.
func (l *Listener) Workers() []*Worker { return l.workers }

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve accepts connections until the listener is closed, dispatching
// each to the next worker in round-robin order. Serve is meant to run
// after every Worker's Run has been started on its own goroutine.
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		idx := atomic.AddUint64(&l.next, 1) % uint64(len(l.workers))
		l.workers[idx].Submit(conn)
	}
}

// Close closes the listening socket and every worker's connection
// queue.
func (l *Listener) Close() error {
	err := l.ln.Close()
	for _, w := range l.workers {
		w.Close()
	}
	return err
}
