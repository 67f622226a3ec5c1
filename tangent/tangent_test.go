package tangent

import (
	"errors"
	"testing"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestPrevWrapsAtFirstElement(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prev, err := Prev(InTypes, Spline)
	assert.NoError(t, err)
	assert.Equal(t, Auto, prev)
	prev, err = Prev(OutTypes, Spline)
	assert.NoError(t, err)
	assert.Equal(t, Auto, prev)
}

func TestPrevInsideList(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prev, err := Prev(InTypes, Fixed)
	assert.NoError(t, err)
	assert.Equal(t, StepNext, prev)
	prev, err = Prev(OutTypes, Fixed)
	assert.NoError(t, err)
	assert.Equal(t, Step, prev)
}

func TestNextWrapsAtLastElement(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	next, err := Next(OutTypes, Auto)
	assert.NoError(t, err)
	assert.Equal(t, Spline, next)
	for _, typ := range InTypes {
		p, err := Prev(InTypes, typ)
		assert.NoError(t, err)
		n, err := Next(InTypes, p)
		assert.NoError(t, err)
		assert.Equal(t, typ, n)
	}
}

func TestPrevRejectsUnknownType(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Prev(InTypes, Step) // "step" is an out-type only
	assert.True(t, errors.Is(err, graphed.ErrInvalidTangentType))
	_, err = Prev(OutTypes, Type("bouncy"))
	assert.True(t, errors.Is(err, graphed.ErrInvalidTangentType))
}

func TestCounterpart(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, StepNext, Counterpart(Step, In))
	assert.Equal(t, Step, Counterpart(StepNext, Out))
	assert.Equal(t, Step, Counterpart(Step, Out))
	assert.Equal(t, Linear, Counterpart(Linear, In))
	assert.True(t, IsValid(In, StepNext))
	assert.False(t, IsValid(In, Step))
}

func TestRemap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, c := range []struct{ in, want float64 }{{45, 0}, {0, -10}, {90, 10}} {
		got, err := Remap(c.in, 0, 90, -10, 10)
		assert.NoError(t, err)
		assert.InDelta(t, c.want, got, 1e-12)
	}
	_, err := Remap(1, 3, 3, 0, 1)
	assert.True(t, errors.Is(err, graphed.ErrDivisionByZero))
}

func TestLerpAndInverse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.InDelta(t, 7.5, Lerp(5, 10, 0.5), 1e-12)
	u, err := InverseLerp(5, 10, 7.5)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, u, 1e-12)
	_, err = InverseLerp(2, 2, 2)
	assert.True(t, errors.Is(err, graphed.ErrDivisionByZero))
}

func TestAngleFor(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, err := AngleFor(0, 30, true)
	assert.NoError(t, err)
	assert.InDelta(t, 30.0, a, 1e-12)
	a, _ = AngleFor(90, 30, true)
	assert.InDelta(t, 90.0, a, 1e-12)
	a, _ = AngleFor(90, 30, false)
	assert.InDelta(t, -90.0, a, 1e-12)
	a, _ = AngleFor(45, 30, false)
	assert.InDelta(t, -30.0, a, 1e-12)
}

func TestSlopeAngleConversion(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.InDelta(t, 1.0, Slope(45), 1e-12)
	assert.InDelta(t, 45.0, Angle(1), 1e-12)
	assert.InDelta(t, -30.0, AngleOf(graphed.P(-1, 0.57735026919)), 1e-6)
	assert.InDelta(t, 60.0, AngleOf(Direction(60)), 1e-9)
}

func TestDefaultAngles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	n := Neighbourhood{
		Prev: graphed.P(0, 0), Cur: graphed.P(1, 1), Next: graphed.P(2, 3),
		HasPrev: true, HasNext: true,
	}
	a, ok := DefaultAngle(Linear, In, n)
	assert.True(t, ok)
	assert.InDelta(t, 45.0, a, 1e-9)
	a, _ = DefaultAngle(Linear, Out, n)
	assert.InDelta(t, Angle(2), a, 1e-9)
	a, _ = DefaultAngle(Spline, Out, n)
	assert.InDelta(t, Angle(1.5), a, 1e-9)
	a, _ = DefaultAngle(Flat, In, n)
	assert.InDelta(t, 0.0, a, 1e-12)
	_, ok = DefaultAngle(Fixed, In, n)
	assert.False(t, ok)

	peak := Neighbourhood{
		Prev: graphed.P(0, 0), Cur: graphed.P(1, 5), Next: graphed.P(2, 1),
		HasPrev: true, HasNext: true,
	}
	a, _ = DefaultAngle(Plateau, Out, peak)
	assert.InDelta(t, 0.0, a, 1e-12)
	a, _ = DefaultAngle(Spline, Out, peak)
	assert.InDelta(t, Angle(0.5), a, 1e-9)
	alone := Neighbourhood{Cur: graphed.P(4, 4)}
	a, _ = DefaultAngle(Spline, In, alone)
	assert.InDelta(t, 0.0, a, 1e-12)
}
