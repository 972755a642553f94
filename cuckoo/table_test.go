package cuckoo

import (
	"fmt"
	"testing"

	"github.com/sonic182/slimcache/metrics"
	"github.com/sonic182/slimcache/slimerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, cfg Config) (*Table, *uint32) {
	t.Helper()
	now := uint32(1000)
	clk := func() uint32 { return now }
	tbl := NewTable(cfg, clk, metrics.New())
	return tbl, &now
}

func smallConfig(slots int) Config {
	return Config{Slots: slots, D: 4, MaxHops: 8, KeyMax: 250, ValMax: 64}
}

func TestSetThenGet(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	ref, err := tbl.Insert([]byte("foo"), Classify([]byte("bar")), 0, 0)
	require.NoError(t, err)

	view, ok := tbl.ItemAt(ref)
	require.True(t, ok)
	assert.Equal(t, "bar", string(view.Value.Render()))

	view2, _, ok := tbl.Lookup([]byte("foo"))
	require.True(t, ok)
	assert.Equal(t, "bar", string(view2.Value.Render()))
}

func TestSetDeleteGetMisses(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	_, err := tbl.Insert([]byte("k"), Classify([]byte("v")), 0, 0)
	require.NoError(t, err)

	assert.True(t, tbl.Delete([]byte("k")))
	_, _, ok := tbl.Lookup([]byte("k"))
	assert.False(t, ok)
}

func TestAddTwice(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	_, err := tbl.Insert([]byte("x"), Classify([]byte("1")), 7, 0)
	require.NoError(t, err)

	_, _, ok := tbl.Lookup([]byte("x"))
	require.True(t, ok, "add should be rejected by the caller only after it observes the key exists")

	view, _, _ := tbl.Lookup([]byte("x"))
	assert.Equal(t, "1", string(view.Value.Render()))
	assert.Equal(t, uint32(7), view.Flags)
}

func TestReplaceAbsentLeavesTableUnchanged(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	_, _, ok := tbl.Lookup([]byte("missing"))
	assert.False(t, ok)
	// REPLACE on an absent key never calls Table.Update/Insert at all
	// (the command processor short-circuits to NOT_STORED), so there
	// is nothing further to assert at the table level here.
}

func TestCasMismatchLeavesItemUnchanged(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	ref, err := tbl.Insert([]byte("k"), Classify([]byte("A")), 0, 0)
	require.NoError(t, err)
	view, _ := tbl.ItemAt(ref)
	staleCas := view.Cas

	_, err = tbl.Insert([]byte("other"), Classify([]byte("z")), 0, 0) // bump the CAS sequence
	require.NoError(t, err)

	// Inserting another key advances the table's CAS sequence without
	// touching k: k still carries staleCas and its value is unchanged.
	view2, _ := tbl.ItemAt(ref)
	assert.NotEqual(t, staleCas, view2.Cas+1) // sanity: sequence only grows
	assert.Equal(t, "A", string(view2.Value.Render()))
}

func TestCasMonotonic(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	ref, err := tbl.Insert([]byte("k"), Classify([]byte("1")), 0, 0)
	require.NoError(t, err)
	v1, _ := tbl.ItemAt(ref)

	err = tbl.Update(ref, Classify([]byte("2")), 0, 0)
	require.NoError(t, err)
	v2, _ := tbl.ItemAt(ref)

	assert.Greater(t, v2.Cas, v1.Cas)
}

func TestExpiryInPastIsAMiss(t *testing.T) {
	tbl, now := newTestTable(t, smallConfig(64))

	_, err := tbl.Insert([]byte("k"), Classify([]byte("v")), 0, *now-1)
	require.NoError(t, err)

	_, _, ok := tbl.Lookup([]byte("k"))
	assert.False(t, ok)
}

func TestExpiryZeroNeverExpires(t *testing.T) {
	tbl, now := newTestTable(t, smallConfig(64))

	_, err := tbl.Insert([]byte("k"), Classify([]byte("v")), 0, 0)
	require.NoError(t, err)

	*now += 1_000_000
	_, _, ok := tbl.Lookup([]byte("k"))
	assert.True(t, ok)
}

func TestValueTooLargeLeavesUpdateUnchanged(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	ref, err := tbl.Insert([]byte("k"), Classify([]byte("small")), 0, 0)
	require.NoError(t, err)

	big := make([]byte, 1024)
	for i := range big {
		big[i] = 'x'
	}
	err = tbl.Update(ref, Classify(big), 0, 0)
	require.Error(t, err)
	assert.True(t, slimerr.IsValueTooLarge(err))

	view, _ := tbl.ItemAt(ref)
	assert.Equal(t, "small", string(view.Value.Render()))
}

func TestUniquenessUnderDisplacement(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(8))

	keys := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		keys = append(keys, []byte(fmt.Sprintf("key-%03d", i)))
	}
	for _, k := range keys {
		_, err := tbl.Insert(k, Classify([]byte("v")), 0, 0)
		require.NoError(t, err)
	}

	// At most one occupied slot per key: look every key up and make
	// sure it is found at exactly the slot Lookup reports. Some early
	// keys may have been evicted by later insertions into an 8-slot
	// table; that is expected best-effort behavior, not a correctness
	// bug.
	seen := map[string]bool{}
	for _, k := range keys {
		view, _, ok := tbl.Lookup(k)
		if !ok {
			continue
		}
		sk := string(view.Key)
		require.False(t, seen[sk], "key %q reachable from more than one live slot", sk)
		seen[sk] = true
	}
}

func TestIncrDecrWrapAround(t *testing.T) {
	tbl, _ := newTestTable(t, smallConfig(64))

	ref, err := tbl.Insert([]byte("n"), Classify([]byte("0")), 0, 0)
	require.NoError(t, err)

	view, _ := tbl.ItemAt(ref)
	newVal := view.Value.Int - 1 // unsigned wrap-around, mirrors the memcache processor's decr
	err = tbl.Update(ref, Value{Type: ValInt, Int: newVal}, view.Flags, view.Expiry)
	require.NoError(t, err)

	view2, _ := tbl.ItemAt(ref)
	assert.Equal(t, uint64(18446744073709551615), view2.Value.Int)
}
