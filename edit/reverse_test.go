package edit

import (
	"errors"
	"testing"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/config"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/graphed/tangent"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func fixed(t, v, angle float64) curve.Key {
	tg := curve.Tangent{Type: tangent.Fixed, Angle: angle, Weight: 1}
	return curve.Key{Time: t, Value: v, In: tg, Out: tg}
}

func newStore(t *testing.T, curves map[curve.ID][]curve.Key, order ...curve.ID) *curve.MemStore {
	t.Helper()
	s := curve.NewMemStore()
	for _, c := range order {
		if err := s.AddCurve(c, "pCube1", curves[c]...); err != nil {
			t.Fatalf("cannot set up curve %q: %v", c, err)
		}
	}
	return s
}

func keysOf(t *testing.T, s curve.Store, c curve.ID) ([]float64, []float64) {
	t.Helper()
	keys, err := s.Keys(c)
	assert.NoError(t, err)
	ts, vs := make([]float64, len(keys)), make([]float64, len(keys))
	for i, k := range keys {
		ts[i], vs[i] = k.Time, k.Value
	}
	return ts, vs
}

func TestReverseAllKeys(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{
		"tx": {fixed(0, 0, 30), fixed(1, 5, 0), fixed(3, 10, -20)},
	}, "tx")
	ed := NewEditor(s, config.Default())
	assert.NoError(t, ed.ReverseKeysHorizontal())
	ts, vs := keysOf(t, s, "tx")
	assert.Equal(t, []float64{0, 2, 3}, ts)
	assert.Equal(t, []float64{10, 5, 0}, vs)
	keys, _ := s.Keys("tx")
	assert.InDelta(t, -30, keys[2].In.Angle, 1e-9)
	assert.InDelta(t, 20, keys[0].Out.Angle, 1e-9)
	assert.Equal(t, []string{"reverseKeysHorizontal"}, s.UndoSteps())
}

func TestReverseIsSymmetricBeforeSnapping(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{
		"tx": {fixed(0, 0, 10), fixed(1.5, 4, 0), fixed(2, 8, 0), fixed(6, 2, -5)},
	}, "tx")
	before, _ := s.Keys("tx")
	ed := NewEditor(s, config.Default())
	assert.NoError(t, ed.ReverseKeysHorizontal())
	ts, vs := keysOf(t, s, "tx")
	assert.Equal(t, []float64{0, 4, 5, 6}, ts) // 4.5 snaps to 5, 4 is exact
	for i, k := range before {
		j := len(before) - 1 - i
		assert.Equal(t, k.Value, vs[j])
	}
}

func TestReverseSnapsFractionalKeys(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{
		"tx": {fixed(0, 0, 0), fixed(1.3, 1, 0), fixed(3, 2, 0)},
	}, "tx")
	assert.NoError(t, NewEditor(s, config.Default()).ReverseKeysHorizontal())
	ts, vs := keysOf(t, s, "tx")
	assert.Equal(t, []float64{0, 2, 3}, ts)
	assert.Equal(t, []float64{2, 1, 0}, vs)
}

func TestReverseCollidingKeys(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{
		"tx": {fixed(0, 0, 0), fixed(2.6, 1, 0), fixed(3, 2, 0)},
	}, "tx")
	assert.NoError(t, NewEditor(s, config.Default()).ReverseKeysHorizontal())
	ts, vs := keysOf(t, s, "tx")
	assert.Equal(t, []float64{0, 3}, ts) // the key mirrored to 0.4 is dropped
	assert.Equal(t, []float64{2, 0}, vs)
}

func TestReverseSelectedKeysRestoresSelection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{
		"tx": {fixed(0, 0, 0), fixed(1, 5, 0), fixed(3, 10, 0), fixed(8, 1, 0)},
		"ty": {fixed(0, 1, 0), fixed(3, 2, 0)},
	}, "tx", "ty")
	sel := curve.NewSelection().Add("tx", 0, curve.WholeKey).Add("tx", 2, curve.HandleOut)
	s.Select(sel)
	assert.NoError(t, NewEditor(s, config.Default()).ReverseKeysHorizontal())
	ts, vs := keysOf(t, s, "tx")
	assert.Equal(t, []float64{0, 2, 3, 8}, ts)
	assert.Equal(t, []float64{10, 5, 0, 1}, vs)
	_, vs = keysOf(t, s, "ty") // not selected
	assert.Equal(t, []float64{1, 2}, vs)
	assert.Equal(t, sel, s.Selection())
}

func TestReverseWithoutKeys(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{"tx": nil}, "tx")
	err := NewEditor(s, config.Default()).ReverseKeysHorizontal()
	assert.True(t, errors.Is(err, graphed.ErrEmptySelection))
	assert.Empty(t, s.UndoSteps())
}

func TestReverseCanBeUndone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newStore(t, map[curve.ID][]curve.Key{
		"tx": {fixed(0, 0, 0), fixed(1.3, 1, 0), fixed(3, 2, 0)},
	}, "tx")
	before, _ := s.Keys("tx")
	assert.NoError(t, NewEditor(s, config.Default()).ReverseKeysHorizontal())
	assert.NoError(t, s.Undo())
	after, _ := s.Keys("tx")
	assert.Equal(t, before, after)
}
