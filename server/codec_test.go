package server

import (
	"bufio"
	"strings"
	"testing"

	"github.com/sonic182/slimcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codecFor(t *testing.T, wire string) *Codec {
	t.Helper()
	return NewCodec(bufio.NewReader(strings.NewReader(wire)))
}

func TestReadRequestSet(t *testing.T) {
	c := codecFor(t, "set foo 0 0 3\r\nbar\r\n")
	req, err := c.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, memcache.VerbSet, req.Verb)
	assert.Equal(t, "foo", string(req.Key()))
	assert.Equal(t, "bar", string(req.Value))
}

func TestReadRequestSetNoreply(t *testing.T) {
	c := codecFor(t, "set k 0 0 1 noreply\r\nZ\r\n")
	req, err := c.ReadRequest()
	require.NoError(t, err)
	assert.True(t, req.NoReply)
}

func TestReadRequestMultiGet(t *testing.T) {
	c := codecFor(t, "get a b c\r\n")
	req, err := c.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, memcache.VerbGet, req.Verb)
	require.Len(t, req.Keys, 3)
	assert.Equal(t, "b", string(req.Keys[1]))
}

func TestReadRequestCas(t *testing.T) {
	c := codecFor(t, "cas k 0 0 1 42\r\nC\r\n")
	req, err := c.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, memcache.VerbCas, req.Verb)
	assert.Equal(t, uint64(42), req.Cas)
	assert.Equal(t, "C", string(req.Value))
}

func TestReadRequestIncr(t *testing.T) {
	c := codecFor(t, "incr n 5\r\n")
	req, err := c.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, memcache.VerbIncr, req.Verb)
	assert.Equal(t, uint64(5), req.Delta)
}

func TestReadRequestUnknownVerb(t *testing.T) {
	c := codecFor(t, "bogus\r\n")
	_, err := c.ReadRequest()
	require.Error(t, err)
	var protoErr *ErrProtocol
	assert.ErrorAs(t, err, &protoErr)
}

func TestReadRequestQuit(t *testing.T) {
	c := codecFor(t, "quit\r\n")
	req, err := c.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, memcache.VerbQuit, req.Verb)
}
