package curve

import (
	"math"
	"sort"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/tangent"
)

// maxAngle keeps tangent slopes finite.
const maxAngle = 89.99

func clampAngle(a float64) float64 {
	return math.Max(-maxAngle, math.Min(maxAngle, a))
}

// handle returns the time extent of a tangent handle, relative to the
// segment length. Non-weighted tangents have a fixed extent of 1/3.
func handle(k Key, tg Tangent) float64 {
	if !k.Weighted {
		return 1.0 / 3.0
	}
	return math.Max(tg.Weight, 0) / 3.0
}

// controls returns the Bézier control points of the segment from k0 to k1.
// Handles are shortened if they would overlap in time, to keep the segment
// a function of time.
func controls(k0, k1 Key) [4]graphed.Pair {
	dt := k1.Time - k0.Time
	a, b := dt*handle(k0, k0.Out), dt*handle(k1, k1.In)
	if a+b > dt {
		f := dt / (a + b)
		a, b = a*f, b*f
	}
	s0 := tangent.Slope(clampAngle(k0.Out.Angle))
	s1 := tangent.Slope(clampAngle(k1.In.Angle))
	p0 := graphed.P(k0.Time, k0.Value)
	p3 := graphed.P(k1.Time, k1.Value)
	return [4]graphed.Pair{p0, p0 + graphed.P(a, a*s0), p3 - graphed.P(b, b*s1), p3}
}

// pointAt evaluates a cubic Bézier segment by de Casteljau's algorithm.
func pointAt(cp [4]graphed.Pair, u float64) graphed.Pair {
	p01, p12, p23 := cp[0].Lerp(cp[1], u), cp[1].Lerp(cp[2], u), cp[2].Lerp(cp[3], u)
	p012, p123 := p01.Lerp(p12, u), p12.Lerp(p23, u)
	return p012.Lerp(p123, u)
}

// solveU finds the segment parameter u where the segment reaches time t.
// Segments are monotone in time, so bisection is sufficient.
func solveU(cp [4]graphed.Pair, t float64) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 64; i++ {
		mid := (lo + hi) / 2
		if pointAt(cp, mid).T() < t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// evaluate returns the value of a curve with the given keys at time t.
// Outside the key range the curve is extrapolated as a constant.
func evaluate(keys []Key, t float64) float64 {
	n := len(keys)
	if n == 0 {
		return 0
	}
	if t <= keys[0].Time {
		return keys[0].Value
	}
	if t >= keys[n-1].Time {
		return keys[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return keys[i].Time > t })
	k0, k1 := keys[i-1], keys[i]
	if graphed.Is0(t - k0.Time) {
		return k0.Value
	}
	if tangent.IsStepped(k0.Out.Type) {
		return k0.Value
	}
	if k1.In.Type == tangent.StepNext {
		return k1.Value
	}
	cp := controls(k0, k1)
	return pointAt(cp, solveU(cp, t)).V()
}

// slopeAt estimates the slope dv/dt of a curve at time t.
func slopeAt(keys []Key, t float64) float64 {
	n := len(keys)
	if n < 2 || t <= keys[0].Time || t >= keys[n-1].Time {
		return 0
	}
	const h = 1e-4
	return (evaluate(keys, t+h) - evaluate(keys, t-h)) / (2 * h)
}

// value returns the value of curve ac at time t, continuing the curve
// beyond its keys as its infinity settings tell.
func (ac *animCurve) value(t float64) float64 {
	return extrapolate(ac.list(), ac.pre, ac.post, t)
}

func extrapolate(keys []Key, pre, post Infinity, t float64) float64 {
	n := len(keys)
	if n == 0 {
		return 0
	}
	first, last := keys[0], keys[n-1]
	inf, k, tg := post, last, last.Out
	switch {
	case t < first.Time:
		inf, k, tg = pre, first, first.In
	case t <= last.Time:
		return evaluate(keys, t)
	}
	switch inf {
	case LinearInfinity:
		return k.Value + (t-k.Time)*tangent.Slope(clampAngle(tg.Angle))
	case CycleInfinity:
		if period := last.Time - first.Time; period > 0 {
			d := math.Mod(t-first.Time, period)
			if d < 0 {
				d += period
			}
			return evaluate(keys, first.Time+d)
		}
	}
	return k.Value
}
