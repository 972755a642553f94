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

package memcache

import (
	"bytes"

	"github.com/sonic182/slimcache/cuckoo"
	"github.com/sonic182/slimcache/metrics"
)

// Processor is the pure command dispatch: parsed Request in, storage
// effect plus a composed response frame out. A Processor is not safe
// for concurrent use, mirroring the single-worker-thread model that
// owns both it and the Table it wraps.
type Processor struct {
	table   *cuckoo.Table
	metrics *metrics.Metrics
}

// NewProcessor builds a Processor over table, recording outcomes into
// m.
func NewProcessor(table *cuckoo.Table, m *metrics.Metrics) *Processor {
	return &Processor{table: table, metrics: m}
}

// Quit marks the outcome of a QUIT request: not an error, but a signal
// for the caller to close the connection after any buffered output is
// flushed. Process reports QUIT through its boolean result and does
// not return this value.
var Quit = struct{ quit bool }{quit: true}

// Process dispatches req onto the storage engine and appends the
// appropriate response frame(s) to w, unless req.NoReply suppresses
// the frame for a mutating verb (the mutation still runs even when
// the frame is suppressed). It returns quit=true iff req.Verb is
// VerbQuit.
func (p *Processor) Process(req *Request, buf *bytes.Buffer) (quit bool) {
	p.metrics.IncProcess()
	w := NewResponseWriter(buf)

	switch req.Verb {
	case VerbGet:
		p.processGet(req, w, false)
	case VerbGets:
		p.processGet(req, w, true)
	case VerbDelete:
		p.processDelete(req, w)
	case VerbSet:
		p.processStore(req, w, storeSet)
	case VerbAdd:
		p.processStore(req, w, storeAdd)
	case VerbReplace:
		p.processStore(req, w, storeReplace)
	case VerbCas:
		p.processCas(req, w)
	case VerbIncr:
		p.processIncrDecr(req, w, true)
	case VerbDecr:
		p.processIncrDecr(req, w, false)
	case VerbStats:
		p.processStats(w)
	case VerbQuit:
		p.metrics.IncQuit()
		return true
	default:
		// Unreachable: the codec rejects unknown verbs upstream of
		// the processor.
		panic("memcache: unknown verb reached Processor.Process")
	}
	return false
}

func (p *Processor) processGet(req *Request, w ResponseWriter, withCas bool) {
	if withCas {
		p.metrics.IncGets()
	} else {
		p.metrics.IncGet()
	}

	for _, key := range req.Keys {
		if withCas {
			p.metrics.IncGetsKey()
		} else {
			p.metrics.IncGetKey()
		}

		view, _, ok := p.table.Lookup(key)
		if !ok {
			if withCas {
				p.metrics.IncGetsKeyMiss()
			} else {
				p.metrics.IncGetKeyMiss()
			}
			continue
		}
		if withCas {
			p.metrics.IncGetsKeyHit()
		} else {
			p.metrics.IncGetKeyHit()
		}
		w.Value(view.Key, view.Value.Render(), view.Flags, view.Cas, withCas)
	}
	w.End()
}

func (p *Processor) processDelete(req *Request, w ResponseWriter) {
	p.metrics.IncDelete()
	ok := p.table.Delete(req.Key())
	if req.NoReply {
		p.countDelete(ok)
		return
	}
	if ok {
		p.metrics.IncDeleteDeleted()
		w.Deleted()
	} else {
		p.metrics.IncDeleteNotfound()
		w.NotFound()
	}
}

func (p *Processor) countDelete(ok bool) {
	if ok {
		p.metrics.IncDeleteDeleted()
	} else {
		p.metrics.IncDeleteNotfound()
	}
}

// storeMode selects ADD/REPLACE/SET's existence precondition.
type storeMode uint8

const (
	storeSet storeMode = iota
	storeAdd
	storeReplace
)

func (p *Processor) processStore(req *Request, w ResponseWriter, mode storeMode) {
	inc, incStored, incNotstored, incEx := p.storeCounters(mode)
	inc()

	val := cuckoo.Classify(req.Value)
	_, ref, exists := p.table.Lookup(req.Key())

	switch mode {
	case storeAdd:
		if exists {
			incNotstored()
			if !req.NoReply {
				w.NotStored()
			}
			return
		}
	case storeReplace:
		if !exists {
			incNotstored()
			if !req.NoReply {
				w.NotStored()
			}
			return
		}
	}

	var err error
	if exists {
		err = p.table.Update(ref, val, req.Flags, req.Expiry)
	} else {
		_, err = p.table.Insert(req.Key(), val, req.Flags, req.Expiry)
	}

	if err != nil {
		incEx()
		if !req.NoReply {
			w.ClientError(err.Error())
		}
		return
	}
	incStored()
	if !req.NoReply {
		w.Stored()
	}
}

func (p *Processor) storeCounters(mode storeMode) (inc, stored, notstored, ex func()) {
	switch mode {
	case storeAdd:
		return p.metrics.IncAdd, p.metrics.IncAddStored, p.metrics.IncAddNotstored, p.metrics.IncAddEx
	case storeReplace:
		return p.metrics.IncReplace, p.metrics.IncReplaceStored, p.metrics.IncReplaceNotstored, p.metrics.IncReplaceEx
	default:
		return p.metrics.IncSet, p.metrics.IncSetStored, func() {}, p.metrics.IncSetEx
	}
}

func (p *Processor) processCas(req *Request, w ResponseWriter) {
	p.metrics.IncCas()

	view, ref, exists := p.table.Lookup(req.Key())
	if !exists {
		p.metrics.IncCasNotfound()
		if !req.NoReply {
			w.NotFound()
		}
		return
	}
	if view.Cas != req.Cas {
		p.metrics.IncCasExists()
		if !req.NoReply {
			w.Exists()
		}
		return
	}

	val := cuckoo.Classify(req.Value)
	if err := p.table.Update(ref, val, req.Flags, req.Expiry); err != nil {
		p.metrics.IncCasEx()
		if !req.NoReply {
			w.ClientError(err.Error())
		}
		return
	}
	p.metrics.IncCasStored()
	if !req.NoReply {
		w.Stored()
	}
}

func (p *Processor) processIncrDecr(req *Request, w ResponseWriter, isIncr bool) {
	if isIncr {
		p.metrics.IncIncr()
	} else {
		p.metrics.IncDecr()
	}

	view, ref, exists := p.table.Lookup(req.Key())
	if !exists {
		p.countIncrDecr(isIncr, outcomeNotfound)
		if !req.NoReply {
			w.NotFound()
		}
		return
	}
	if view.Value.Type != cuckoo.ValInt {
		p.countIncrDecr(isIncr, outcomeEx)
		if !req.NoReply {
			w.ClientError("cannot increment or decrement non-numeric value")
		}
		return
	}

	var newVal uint64
	if isIncr {
		newVal = view.Value.Int + req.Delta // unsigned wraparound, no overflow error
	} else {
		newVal = view.Value.Int - req.Delta // unsigned wraparound, no underflow error
	}

	// CAS is bumped on every mutation, including incr/decr.
	err := p.table.Update(ref, cuckoo.Value{Type: cuckoo.ValInt, Int: newVal}, view.Flags, view.Expiry)
	if err != nil {
		p.countIncrDecr(isIncr, outcomeEx)
		if !req.NoReply {
			w.ClientError(err.Error())
		}
		return
	}
	p.countIncrDecr(isIncr, outcomeStored)
	if !req.NoReply {
		w.Number(newVal)
	}
}

type incrDecrOutcome uint8

const (
	outcomeStored incrDecrOutcome = iota
	outcomeNotfound
	outcomeEx
)

func (p *Processor) countIncrDecr(isIncr bool, outcome incrDecrOutcome) {
	if isIncr {
		switch outcome {
		case outcomeStored:
			p.metrics.IncIncrStored()
		case outcomeNotfound:
			p.metrics.IncIncrNotfound()
		case outcomeEx:
			p.metrics.IncIncrEx()
		}
		return
	}
	switch outcome {
	case outcomeStored:
		p.metrics.IncDecrStored()
	case outcomeNotfound:
		p.metrics.IncDecrNotfound()
	case outcomeEx:
		p.metrics.IncDecrEx()
	}
}

func (p *Processor) processStats(w ResponseWriter) {
	p.metrics.IncStats()
	for _, s := range p.metrics.Snapshot() {
		w.Stat(s.Name, s.Value)
	}
	w.End()
}
