/*
Package graphed implements range edits on animation curves: cyclic
normalization, key range reversal, first/last key matching and tangent
re-weighting. This package holds the numerics shared by the sub-packages:
tolerances, (time,value) pairs and affine transforms of the time/value plane.

Sub-packages:

	tangent   tangent types, type cycling and remap arithmetic
	curve     keys, the curve store interface and an in-memory store
	edit      range edits on selected keys
	cycle     cyclic normalization of curves to a playback window

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package graphed

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphed'
func tracer() tracing.Trace {
	return tracing.Select("graphed")
}

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Tolerance is the value difference up to which the start and end of a
// cyclic curve are considered to match.
const Tolerance float64 = 1e-10

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// Within is a predicate: do a and b differ by at most tol?
func Within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// SnapTo rounds t to the nearest multiple of m. For m <= 0, t is returned
// unchanged.
func SnapTo(t, m float64) float64 {
	if m <= 0 {
		return t
	}
	return math.Round(t/m) * m
}

// Circular returns the element of list at distance by from current,
// wrapping around at both ends. It returns false if current is not in list.
func Circular[T comparable](list []T, current T, by int) (T, bool) {
	for i, x := range list {
		if x == current {
			n := len(list)
			return list[((i+by)%n+n)%n], true
		}
	}
	var zero T
	return zero, false
}

// === Pair Data Type ========================================================

// Pair is a point in the time/value plane of a curve editor. The real part
// is time, the imaginary part is value.
type Pair complex128

// P is a quick notation for contructing a pair from time and value.
func P(t, v float64) Pair {
	return Pair(complex(t, v))
}

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// T is the time-part of a pair.
func (p Pair) T() float64 {
	return real(p)
}

// V is the value-part of a pair.
func (p Pair) V() float64 {
	return imag(p)
}

// Zap rounds both parts to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.T()), Zap(p.V()))
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.T()-p2.T()) && Is0(p.V()-p2.V())
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.T()*a, p.V()*a)
}

// Lerp interpolates between p and q, with u in [0,1].
func (p Pair) Lerp(q Pair, u float64) Pair {
	return p + (q - p).Scaled(u)
}

// === Affine Transformations ================================================

// AT is an affine transform of the time/value plane.
type AT []float64 // a 3x3 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	return make([]float64, 9)
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	return []float64{m[col], m[3+col], m[6+col]}
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dt,dv).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.T())
	m.set(1, 2, p.V())
	return m
}

// Scaling transform. Scales time by st and value by sv, around the origin.
func Scaling(st, sv float64) AT {
	m := Identity()
	m.set(0, 0, st)
	m.set(1, 1, sv)
	return m
}

// TimeScaling scales time by s around a pivot time, leaving values alone.
// TimeScaling(-1, pivot) mirrors a curve in time.
func TimeScaling(s, pivot float64) AT {
	if Is0(s) {
		tracer().Errorf("time scaling by %g collapses keys onto pivot %g", s, pivot)
	}
	return Translation(P(-pivot, 0)).Combine(Scaling(s, 1)).Combine(Translation(P(pivot, 0)))
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Combine 2 affine transformation to a new one, applying m first and n
// second. Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

func (m AT) multiplyVector(v []float64) []float64 {
	return []float64{dotProd(m.row(0), v), dotProd(m.row(1), v), dotProd(m.row(2), v)}
}

// Transform a point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	c := m.multiplyVector([]float64{p.T(), p.V(), 1.0})
	return P(c[0], c[1])
}

// TransformDir transforms a direction vector, i.e. applies the linear part
// of m only.
func (m AT) TransformDir(d Pair) Pair {
	c := m.multiplyVector([]float64{d.T(), d.V(), 0.0})
	return P(c[0], c[1])
}

// Reverses reports whether m flips the direction of time.
func (m AT) Reverses() bool {
	return m.get(0, 0) < 0
}
