package tangent

import (
	"fmt"
	"math"

	"github.com/npillmayer/graphed"
)

// Remap maps value linearly from [inMin,inMax] to [outMin,outMax].
func Remap(value, inMin, inMax, outMin, outMax float64) (float64, error) {
	inSpan := inMax - inMin
	if inSpan == 0 {
		return 0, fmt.Errorf("%w: remap from empty range [%g,%g]", graphed.ErrDivisionByZero, inMin, inMax)
	}
	scaled := (value - inMin) / inSpan
	return outMin + scaled*(outMax-outMin), nil
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp returns the t for which Lerp(a, b, t) == v.
func InverseLerp(a, b, v float64) (float64, error) {
	if a == b {
		return 0, fmt.Errorf("%w: inverse lerp of empty range [%g,%g]", graphed.ErrDivisionByZero, a, b)
	}
	return (v - a) / (b - a), nil
}

// AngleFor remaps a handle value in [0,90] to a tangent angle. With
// up == true the result runs from inAngle to 90 degrees, otherwise from
// inAngle to -90 degrees.
func AngleFor(value, inAngle float64, up bool) (float64, error) {
	if up {
		return Remap(value, 0, 90, inAngle, 90)
	}
	return Remap(value, 0, 90, inAngle, -90)
}

// Slope converts a tangent angle in degrees to a slope dv/dt.
func Slope(angle float64) float64 {
	return math.Tan(angle * math.Pi / 180)
}

// Angle converts a slope dv/dt to a tangent angle in degrees.
func Angle(slope float64) float64 {
	return math.Atan(slope) * 180 / math.Pi
}

// Direction returns the unit direction of a tangent with the given angle,
// pointing forward in time.
func Direction(angle float64) graphed.Pair {
	rad := angle * math.Pi / 180
	return graphed.P(math.Cos(rad), math.Sin(rad))
}

// AngleOf returns the angle of direction d, after flipping d to point
// forward in time.
func AngleOf(d graphed.Pair) float64 {
	if d.T() < 0 {
		d = -d
	}
	if graphed.Is0(d.T()) && graphed.Is0(d.V()) {
		return 0
	}
	return math.Atan2(d.V(), d.T()) * 180 / math.Pi
}
