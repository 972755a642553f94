package memcache

import (
	"bytes"
	"testing"

	"github.com/sonic182/slimcache/clock"
	"github.com/sonic182/slimcache/cuckoo"
	"github.com/sonic182/slimcache/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor() (*Processor, *cuckoo.Table) {
	now := uint32(1000)
	clk := clock.Func(func() uint32 { return now })
	table := cuckoo.NewTable(cuckoo.Config{Slots: 64, D: 4, MaxHops: 8, KeyMax: 250, ValMax: 64}, clk.Now, metrics.New())
	return NewProcessor(table, metrics.New()), table
}

func run(t *testing.T, p *Processor, req *Request) string {
	t.Helper()
	var buf bytes.Buffer
	p.Process(req, &buf)
	return buf.String()
}

func TestScenarioSetThenGet(t *testing.T) {
	p, _ := newTestProcessor()

	out := run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("foo")}, Value: []byte("bar")})
	assert.Equal(t, "STORED\r\n", out)

	out = run(t, p, &Request{Verb: VerbGet, Keys: [][]byte{[]byte("foo")}})
	assert.Equal(t, "VALUE foo 0 3\r\nbar\r\nEND\r\n", out)
}

func TestScenarioAddTwice(t *testing.T) {
	p, _ := newTestProcessor()

	out := run(t, p, &Request{Verb: VerbAdd, Keys: [][]byte{[]byte("x")}, Value: []byte("1"), Flags: 7})
	assert.Equal(t, "STORED\r\n", out)

	out = run(t, p, &Request{Verb: VerbAdd, Keys: [][]byte{[]byte("x")}, Value: []byte("2"), Flags: 7})
	assert.Equal(t, "NOT_STORED\r\n", out)

	out = run(t, p, &Request{Verb: VerbGet, Keys: [][]byte{[]byte("x")}})
	assert.Equal(t, "VALUE x 7 1\r\n1\r\nEND\r\n", out)
}

func TestScenarioIncrWrap(t *testing.T) {
	p, _ := newTestProcessor()

	out := run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("n")}, Value: []byte("0")})
	assert.Equal(t, "STORED\r\n", out)

	out = run(t, p, &Request{Verb: VerbDecr, Keys: [][]byte{[]byte("n")}, Delta: 1})
	assert.Equal(t, "18446744073709551615\r\n", out)
}

func TestScenarioCasConflict(t *testing.T) {
	p, _ := newTestProcessor()

	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("k")}, Value: []byte("A")})

	var buf bytes.Buffer
	p.Process(&Request{Verb: VerbGets, Keys: [][]byte{[]byte("k")}}, &buf)
	firstGets := buf.String()
	require.Contains(t, firstGets, "VALUE k 0 1 ")

	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("k")}, Value: []byte("B")})

	// cas0 captured from the first GETS is now stale.
	cas0 := uint64(1)
	out := run(t, p, &Request{Verb: VerbCas, Keys: [][]byte{[]byte("k")}, Value: []byte("C"), Cas: cas0})
	assert.Equal(t, "EXISTS\r\n", out)

	out = run(t, p, &Request{Verb: VerbGet, Keys: [][]byte{[]byte("k")}})
	assert.Equal(t, "VALUE k 0 1\r\nB\r\nEND\r\n", out)
}

func TestScenarioMultiGet(t *testing.T) {
	p, _ := newTestProcessor()

	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("a")}, Value: []byte("1")})
	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("c")}, Value: []byte("3")})

	out := run(t, p, &Request{Verb: VerbGet, Keys: [][]byte{[]byte("a"), []byte("b"), []byte("c")}})
	assert.Equal(t, "VALUE a 0 1\r\n1\r\nVALUE c 0 1\r\n3\r\nEND\r\n", out)
}

func TestScenarioNoreply(t *testing.T) {
	p, _ := newTestProcessor()

	out := run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("k")}, Value: []byte("Z"), NoReply: true})
	assert.Equal(t, "", out)

	out = run(t, p, &Request{Verb: VerbGet, Keys: [][]byte{[]byte("k")}})
	assert.Equal(t, "VALUE k 0 1\r\nZ\r\nEND\r\n", out)
}

func TestDeleteHitAndMiss(t *testing.T) {
	p, _ := newTestProcessor()

	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("k")}, Value: []byte("v")})

	out := run(t, p, &Request{Verb: VerbDelete, Keys: [][]byte{[]byte("k")}})
	assert.Equal(t, "DELETED\r\n", out)

	out = run(t, p, &Request{Verb: VerbDelete, Keys: [][]byte{[]byte("k")}})
	assert.Equal(t, "NOT_FOUND\r\n", out)
}

func TestReplaceOnAbsentKey(t *testing.T) {
	p, _ := newTestProcessor()

	out := run(t, p, &Request{Verb: VerbReplace, Keys: [][]byte{[]byte("ghost")}, Value: []byte("x")})
	assert.Equal(t, "NOT_STORED\r\n", out)

	out = run(t, p, &Request{Verb: VerbGet, Keys: [][]byte{[]byte("ghost")}})
	assert.Equal(t, "END\r\n", out)
}

func TestIncrOnMissingKey(t *testing.T) {
	p, _ := newTestProcessor()

	out := run(t, p, &Request{Verb: VerbIncr, Keys: [][]byte{[]byte("missing")}, Delta: 1})
	assert.Equal(t, "NOT_FOUND\r\n", out)
}

func TestIncrOnNonIntegerValue(t *testing.T) {
	p, _ := newTestProcessor()

	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("s")}, Value: []byte("notanumber")})
	out := run(t, p, &Request{Verb: VerbIncr, Keys: [][]byte{[]byte("s")}, Delta: 1})
	assert.Contains(t, out, "CLIENT_ERROR")
}

func TestQuitReturnsTrueAndNoFrame(t *testing.T) {
	p, _ := newTestProcessor()
	var buf bytes.Buffer
	quit := p.Process(&Request{Verb: VerbQuit}, &buf)
	assert.True(t, quit)
	assert.Equal(t, "", buf.String())
}

func TestStatsComposesStatLines(t *testing.T) {
	p, _ := newTestProcessor()
	run(t, p, &Request{Verb: VerbSet, Keys: [][]byte{[]byte("k")}, Value: []byte("v")})

	out := run(t, p, &Request{Verb: VerbStats})
	assert.Contains(t, out, "STAT cmd_set 1\r\n")
	assert.Contains(t, out, "END\r\n")
}
