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
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"

	"github.com/sonic182/slimcache/clock"
	"github.com/sonic182/slimcache/memcache"
)

// serveConn owns conn end-to-end: the worker goroutine that accepted
// (or was handed) the connection runs its whole request loop, in
// strict per-connection FIFO order, with no suspension inside a single
// request's processing. tc is ticked once per request, not once per
// connection, so a long-lived persistent connection still observes
// expiries that fall due while it stays open.
func serveConn(conn net.Conn, proc *memcache.Processor, tc *clock.TickClock) {
	defer conn.Close()

	codec := NewCodec(bufio.NewReader(conn))
	var out bytes.Buffer

	for {
		req, err := codec.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			var protoErr *ErrProtocol
			if errors.As(err, &protoErr) {
				out.Reset()
				memcache.NewResponseWriter(&out).ClientError(protoErr.Error())
				if _, werr := conn.Write(out.Bytes()); werr != nil {
					return
				}
				continue
			}
			return
		}

		tc.Tick()
		out.Reset()
		quit := proc.Process(req, &out)
		if out.Len() > 0 {
			if _, werr := conn.Write(out.Bytes()); werr != nil {
				return
			}
		}
		if quit {
			return
		}
	}
}
