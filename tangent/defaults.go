package tangent

import (
	"math"

	"github.com/npillmayer/graphed"
)

// Neighbourhood is the local context of a key, used to compute the angle a
// tangent type takes by default.
type Neighbourhood struct {
	Prev, Cur, Next  graphed.Pair
	HasPrev, HasNext bool
}

func secant(a, b graphed.Pair) float64 {
	dt := b.T() - a.T()
	if graphed.Is0(dt) {
		return 0
	}
	return (b.V() - a.V()) / dt
}

// smooth is the Catmull-Rom style slope through the neighbours of a key.
func (n Neighbourhood) smooth() float64 {
	switch {
	case n.HasPrev && n.HasNext:
		return secant(n.Prev, n.Next)
	case n.HasPrev:
		return secant(n.Prev, n.Cur)
	case n.HasNext:
		return secant(n.Cur, n.Next)
	}
	return 0
}

func (n Neighbourhood) isExtremum() bool {
	if !n.HasPrev || !n.HasNext {
		return true
	}
	v := n.Cur.V()
	return (v >= n.Prev.V() && v >= n.Next.V()) || (v <= n.Prev.V() && v <= n.Next.V())
}

func (n Neighbourhood) touchesNeighbour() bool {
	v := n.Cur.V()
	return (n.HasPrev && graphed.Is0(v-n.Prev.V())) || (n.HasNext && graphed.Is0(v-n.Next.V()))
}

// DefaultAngle returns the angle in degrees a key's tangent on side s gets
// when its type is set to t. For Fixed tangents the current angle is kept,
// which is signalled by ok == false.
func DefaultAngle(t Type, s Side, n Neighbourhood) (angle float64, ok bool) {
	var slope float64
	switch t {
	case Fixed:
		return 0, false
	case Flat, Step, StepNext:
		slope = 0
	case Linear:
		switch {
		case s == In && n.HasPrev:
			slope = secant(n.Prev, n.Cur)
		case s == Out && n.HasNext:
			slope = secant(n.Cur, n.Next)
		default:
			slope = n.smooth()
		}
	case Clamped:
		if n.touchesNeighbour() {
			slope = 0
		} else {
			slope = n.smooth()
		}
	case Plateau, Auto:
		if n.isExtremum() {
			slope = 0
		} else {
			slope = n.smooth()
		}
	default: // spline, fast, slow
		slope = n.smooth()
	}
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		tracer().Debugf("degenerate %s slope for %s tangent at %s", t, s, n.Cur)
		slope = 0
	}
	return Angle(slope), true
}
