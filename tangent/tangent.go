/*
Package tangent deals with the tangents entering and leaving a key of an
animation curve: the closed set of tangent types, type cycling, and the
arithmetic used to remap tangent angles and weights.

Tangent types are kept in two ordered lists, one for in-tangents and one for
out-tangents. They are identical except for the stepped type, which is
called "stepnext" on the in-side and "step" on the out-side. The order of
the lists is meaningful: cycling to the previous type indexes into them
circularly, with the first element wrapping around to the last.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package tangent

import (
	"fmt"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphed.tangent'
func tracer() tracing.Trace {
	return tracing.Select("graphed.tangent")
}

// Type is a tangent type, the interpolation style entering or leaving a key.
type Type string

// Tangent types known to the curve editor.
const (
	Spline   Type = "spline"
	Linear   Type = "linear"
	Fast     Type = "fast"
	Slow     Type = "slow"
	Flat     Type = "flat"
	StepNext Type = "stepnext" // stepped, in-side
	Step     Type = "step"     // stepped, out-side
	Fixed    Type = "fixed"
	Clamped  Type = "clamped"
	Plateau  Type = "plateau"
	Auto     Type = "auto"
)

// InTypes lists the in-tangent types in cycling order.
var InTypes = []Type{Spline, Linear, Fast, Slow, Flat, StepNext, Fixed, Clamped, Plateau, Auto}

// OutTypes lists the out-tangent types in cycling order.
var OutTypes = []Type{Spline, Linear, Fast, Slow, Flat, Step, Fixed, Clamped, Plateau, Auto}

// Side selects the in- or out-tangent of a key.
type Side int

const (
	In Side = iota
	Out
)

func (s Side) String() string {
	if s == Out {
		return "out"
	}
	return "in"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == In {
		return Out
	}
	return In
}

// TypesFor returns the cycling list for a side.
func TypesFor(s Side) []Type {
	if s == Out {
		return OutTypes
	}
	return InTypes
}

func indexOf(list []Type, t Type) int {
	for i, x := range list {
		if x == t {
			return i
		}
	}
	return -1
}

// IsValid is a predicate: is t a tangent type for side s?
func IsValid(s Side, t Type) bool {
	return indexOf(TypesFor(s), t) >= 0
}

// Prev returns the element preceding current in list, wrapping around from
// the first element to the last one.
//
//	Prev(InTypes, Spline) == Auto
func Prev(list []Type, current Type) (Type, error) {
	return shift(list, current, -1)
}

// Next returns the element following current in list, wrapping around from
// the last element to the first one.
func Next(list []Type, current Type) (Type, error) {
	return shift(list, current, 1)
}

func shift(list []Type, current Type, by int) (Type, error) {
	t, ok := graphed.Circular(list, current, by)
	if !ok {
		return "", fmt.Errorf("%w: %q", graphed.ErrInvalidTangentType, current)
	}
	return t, nil
}

// Counterpart returns the type t expressed for side s. Stepped tangents
// change their name when moving between sides, all other types are the same
// on both sides.
func Counterpart(t Type, s Side) Type {
	switch {
	case s == In && t == Step:
		return StepNext
	case s == Out && t == StepNext:
		return Step
	}
	return t
}

// IsStepped is a predicate: does t hold the value until the next key?
func IsStepped(t Type) bool {
	return t == Step || t == StepNext
}
