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

// Package server provides a runnable process around the cache core:
// the textual memcache-ASCII codec, the TCP acceptor, and a fixed
// worker pool, one goroutine per worker, that owns connections
// end-to-end under a single-worker-thread concurrency model.
package server

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/sonic182/slimcache/memcache"
)

// ErrProtocol reports a malformed command line; serveConn answers it
// with a CLIENT_ERROR frame, so the processor never sees the request.
type ErrProtocol struct {
	msg string
}

func (e *ErrProtocol) Error() string { return e.msg }

func protoErr(format string, args ...interface{}) error {
	return &ErrProtocol{msg: fmt.Sprintf(format, args...)}
}

// Codec tokenizes the memcache-ASCII command subset off a buffered
// connection reader into memcache.Request values.
type Codec struct {
	r *bufio.Reader
}

// NewCodec wraps r.
func NewCodec(r *bufio.Reader) *Codec {
	return &Codec{r: r}
}

// ReadRequest reads and parses one command, including its trailing
// data block for store verbs. It returns (nil, io.EOF) when the
// connection is cleanly closed between commands.
func (c *Codec) ReadRequest() (*memcache.Request, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	fields := bytes.Fields(line)
	if len(fields) == 0 {
		return nil, protoErr("empty command line")
	}

	verb := string(fields[0])
	switch verb {
	case "get", "gets":
		return c.parseRetrieval(verb, fields[1:])
	case "set", "add", "replace":
		return c.parseStore(verb, fields[1:])
	case "cas":
		return c.parseCas(fields[1:])
	case "delete":
		return c.parseDelete(fields[1:])
	case "incr", "decr":
		return c.parseIncrDecr(verb, fields[1:])
	case "stats":
		return &memcache.Request{Verb: memcache.VerbStats}, nil
	case "quit":
		return &memcache.Request{Verb: memcache.VerbQuit}, nil
	default:
		return nil, protoErr("unknown command %q", verb)
	}
}

func (c *Codec) readLine() ([]byte, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight([]byte(line), "\r\n"), nil
}

func (c *Codec) readDataBlock(n int) ([]byte, error) {
	data := make([]byte, n+2) // + trailing CRLF
	if _, err := readFull(c.r, data); err != nil {
		return nil, err
	}
	return data[:n], nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c *Codec) parseRetrieval(verb string, args [][]byte) (*memcache.Request, error) {
	if len(args) == 0 {
		return nil, protoErr("%s requires at least one key", verb)
	}
	req := &memcache.Request{Keys: args}
	if verb == "gets" {
		req.Verb = memcache.VerbGets
	} else {
		req.Verb = memcache.VerbGet
	}
	return req, nil
}

func (c *Codec) parseStore(verb string, args [][]byte) (*memcache.Request, error) {
	if len(args) < 4 || len(args) > 5 {
		return nil, protoErr("%s requires key flags expiry bytes [noreply]", verb)
	}
	flags, expiry, n, noreply, err := parseStoreArgs(args)
	if err != nil {
		return nil, err
	}
	data, err := c.readDataBlock(n)
	if err != nil {
		return nil, err
	}

	req := &memcache.Request{
		Keys:    args[0:1],
		Value:   data,
		Flags:   flags,
		Expiry:  expiry,
		NoReply: noreply,
	}
	switch verb {
	case "set":
		req.Verb = memcache.VerbSet
	case "add":
		req.Verb = memcache.VerbAdd
	case "replace":
		req.Verb = memcache.VerbReplace
	}
	return req, nil
}

func (c *Codec) parseCas(args [][]byte) (*memcache.Request, error) {
	if len(args) < 5 || len(args) > 6 {
		return nil, protoErr("cas requires key flags expiry bytes cas [noreply]")
	}
	flags, expiry, n, noreply, err := parseStoreArgs(append(args[:4:4], args[5:]...))
	if err != nil {
		return nil, err
	}
	cas, err := strconv.ParseUint(string(args[4]), 10, 64)
	if err != nil {
		return nil, protoErr("bad cas token %q", args[4])
	}
	data, err := c.readDataBlock(n)
	if err != nil {
		return nil, err
	}
	return &memcache.Request{
		Verb:    memcache.VerbCas,
		Keys:    args[0:1],
		Value:   data,
		Flags:   flags,
		Expiry:  expiry,
		Cas:     cas,
		NoReply: noreply,
	}, nil
}

// parseStoreArgs reads {key, flags, expiry, bytes, [noreply]}.
func parseStoreArgs(args [][]byte) (flags, expiry uint32, n int, noreply bool, err error) {
	f, err := strconv.ParseUint(string(args[1]), 10, 32)
	if err != nil {
		return 0, 0, 0, false, protoErr("bad flags %q", args[1])
	}
	e, err := strconv.ParseUint(string(args[2]), 10, 32)
	if err != nil {
		return 0, 0, 0, false, protoErr("bad expiry %q", args[2])
	}
	sz, err := strconv.Atoi(string(args[3]))
	if err != nil || sz < 0 {
		return 0, 0, 0, false, protoErr("bad byte count %q", args[3])
	}
	noreply = len(args) == 5 && string(args[4]) == "noreply"
	if len(args) == 5 && !noreply {
		return 0, 0, 0, false, protoErr("unexpected trailing token %q", args[4])
	}
	return uint32(f), uint32(e), sz, noreply, nil
}

func (c *Codec) parseDelete(args [][]byte) (*memcache.Request, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, protoErr("delete requires key [noreply]")
	}
	noreply := len(args) == 2 && string(args[1]) == "noreply"
	if len(args) == 2 && !noreply {
		return nil, protoErr("unexpected trailing token %q", args[1])
	}
	return &memcache.Request{Verb: memcache.VerbDelete, Keys: args[0:1], NoReply: noreply}, nil
}

func (c *Codec) parseIncrDecr(verb string, args [][]byte) (*memcache.Request, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, protoErr("%s requires key delta [noreply]", verb)
	}
	delta, err := strconv.ParseUint(string(args[1]), 10, 64)
	if err != nil {
		return nil, protoErr("bad delta %q", args[1])
	}
	noreply := len(args) == 3 && string(args[2]) == "noreply"
	if len(args) == 3 && !noreply {
		return nil, protoErr("unexpected trailing token %q", args[2])
	}
	req := &memcache.Request{Keys: args[0:1], Delta: delta, NoReply: noreply}
	if verb == "incr" {
		req.Verb = memcache.VerbIncr
	} else {
		req.Verb = memcache.VerbDecr
	}
	return req, nil
}
