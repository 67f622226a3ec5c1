package curve

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/tangent"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestConstantInfinity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", fixed(0, 0, 45), fixed(10, 10, 45))
	pre, post, err := s.Infinity("tx")
	assert.NoError(t, err)
	assert.Equal(t, ConstantInfinity, pre)
	assert.Equal(t, ConstantInfinity, post)
	v, _ := s.Evaluate("tx", -5)
	assert.Equal(t, 0.0, v)
	v, _ = s.Evaluate("tx", 15)
	assert.Equal(t, 10.0, v)
}

func TestLinearInfinity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", fixed(0, 0, 45), fixed(10, 10, 45))
	assert.NoError(t, s.SetInfinity("tx", LinearInfinity, LinearInfinity))
	v, _ := s.Evaluate("tx", -5)
	assert.InDelta(t, -5, v, 1e-9)
	v, _ = s.Evaluate("tx", 15)
	assert.InDelta(t, 15, v, 1e-9)
}

func TestCycleInfinity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", fixed(0, 0, 0), fixed(4, 3, 0), fixed(10, 0, 0))
	assert.NoError(t, s.SetInfinity("tx", CycleInfinity, ""))
	pre, post, _ := s.Infinity("tx")
	assert.Equal(t, CycleInfinity, pre)
	assert.Equal(t, ConstantInfinity, post)
	inside, _ := s.Evaluate("tx", 7)
	before, _ := s.Evaluate("tx", -3)
	assert.InDelta(t, inside, before, 1e-9)
	assert.NoError(t, s.SetInfinity("tx", "", CycleInfinity))
	after, _ := s.Evaluate("tx", 27)
	assert.InDelta(t, inside, after, 1e-9)
}

func TestSetInfinityRejectsUnknownMode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", K(0, 0))
	err := s.SetInfinity("tx", "oscillate", "")
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
	err = s.SetInfinity("ty", CycleInfinity, CycleInfinity)
	assert.True(t, errors.Is(err, graphed.ErrNoSuchCurve))
}

func TestInfinityIsUndone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", K(0, 0), K(1, 1))
	s.OpenChunk("infinity")
	assert.NoError(t, s.SetInfinity("tx", CycleInfinity, LinearInfinity))
	s.CloseChunk()
	assert.NoError(t, s.Undo())
	pre, post, _ := s.Infinity("tx")
	assert.Equal(t, ConstantInfinity, pre)
	assert.Equal(t, ConstantInfinity, post)
}

func TestWeightLockKeepsWeights(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k0, k1 := fixed(0, 0, 0), fixed(10, 10, 0)
	k0.Weighted, k1.Weighted = true, true
	k0.Out.Weight = 2
	s := mustStore(t, "tx", k0, k1)
	assert.NoError(t, s.SetWeightLocked("tx", 0, true))
	assert.NoError(t, s.SetTangent("tx", 0, tangent.Out, Change().WithType(tangent.Linear)))
	k, _ := s.Key("tx", 0)
	assert.True(t, k.WeightLocked)
	assert.Equal(t, 2.0, k.Out.Weight)
	assert.NoError(t, s.SetWeightLocked("tx", 0, false))
	assert.NoError(t, s.SetTangent("tx", 0, tangent.Out, Change().WithType(tangent.Flat)))
	k, _ = s.Key("tx", 0)
	assert.Equal(t, 1.0, k.Out.Weight)
}

func TestScaleTimeRejectsCollisions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustStore(t, "tx", fixed(0, 0, 0), fixed(5, 1, 0), fixed(10, 2, 0))
	err := s.ScaleTime("tx", 0, 5, 2, 0)
	assert.True(t, errors.Is(err, graphed.ErrHostOperationFailed))
	assert.Equal(t, []float64{0, 5, 10}, times(t, s, "tx"))
	assert.NoError(t, s.ScaleTime("tx", 0, 10, 2, 0))
	assert.Equal(t, []float64{0, 10, 20}, times(t, s, "tx"))
}

func TestScenePlaybackRange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := ReadScene(strings.NewReader("curves: []\n"), "")
	assert.NoError(t, err)
	assert.Equal(t, TimeWindow{Start: 0, End: 1}, s.PlaybackRange())
	_, err = ReadScene(strings.NewReader("playback: {start: 5, end: 5}\ncurves: []\n"), "")
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
	_, err = ReadScene(strings.NewReader("playback: {start: 40, end: 0}\ncurves: []\n"), "")
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
}

func TestSceneKeepsInfinityAndTime(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	doc := `
currentTime: 12
curves:
  - name: a
    preInfinity: cycle
    postInfinity: linear
    keys:
      - {time: 0, value: 1, weighted: true, weightLocked: true}
      - {time: 5, value: 2}
`
	s, err := ReadScene(strings.NewReader(doc), "")
	assert.NoError(t, err)
	var buf strings.Builder
	assert.NoError(t, WriteScene(&buf, s))
	again, err := ReadScene(strings.NewReader(buf.String()), "")
	assert.NoError(t, err)
	assert.Equal(t, 12.0, again.CurrentTime())
	pre, post, _ := again.Infinity("a")
	assert.Equal(t, CycleInfinity, pre)
	assert.Equal(t, LinearInfinity, post)
	k, _ := again.Key("a", 0)
	assert.True(t, k.WeightLocked)
	_, err = ReadScene(strings.NewReader("curves:\n  - {name: a, preInfinity: bounce, keys: []}\n"), "")
	assert.True(t, errors.Is(err, graphed.ErrInvalidArgument))
}
