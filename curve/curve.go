/*
Package curve models the keyframe database of a curve editor.

A curve is a named, ordered sequence of keys, strictly increasing by time.
Each key carries a value and an in- and out-tangent (type, angle, weight),
plus flags telling whether the weights are meaningful and whether in- and
out-tangent are locked together.

Clients edit curves through the Store interface, which follows the command
surface of an animation host: keys are addressed by curve and index (or
time), ranges are copied to a clipboard and pasted back, selection
can be snapshotted and restored, and edits are grouped into undo chunks.
MemStore is an in-memory implementation replicating the host's behaviour,
including its quirks:

  - weights may only be set on weighted keys
  - on a locked key, angles and weights cannot be edited one side at a time
  - assigning a tangent type recomputes the tangent's default angle
  - tangent-type edits for a selected key act on its active handles only

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curve

import (
	"fmt"
	"sort"

	"github.com/npillmayer/graphed/tangent"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphed.curve'
func tracer() tracing.Trace {
	return tracing.Select("graphed.curve")
}

// ID identifies a curve.
type ID string

// Tangent is one side of a key's tangent. Angle is in degrees, Weight is only
// meaningful for weighted keys.
type Tangent struct {
	Type   tangent.Type `yaml:"type"`
	Angle  float64      `yaml:"angle"`
	Weight float64      `yaml:"weight"`
}

func (tg Tangent) String() string {
	return fmt.Sprintf("%s@%.4g/%.4g", tg.Type, tg.Angle, tg.Weight)
}

// Key is a snapshot of one key of a curve.
type Key struct {
	Index        int
	Time         float64
	Value        float64
	In           Tangent
	Out          Tangent
	Weighted     bool
	Locked       bool
	WeightLocked bool // weights survive tangent type changes
}

// Tangent returns the tangent on side s.
func (k Key) Tangent(s tangent.Side) Tangent {
	if s == tangent.Out {
		return k.Out
	}
	return k.In
}

func (k Key) String() string {
	return fmt.Sprintf("#%d(%g,%g)[%s|%s]", k.Index, k.Time, k.Value, k.In, k.Out)
}

// TimeWindow is a cyclic target range, e.g. the playback range.
type TimeWindow struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%g,%g]", w.Start, w.End)
}

// Infinity tells how a curve continues before its first key (pre-infinity)
// or after its last key (post-infinity).
type Infinity string

const (
	ConstantInfinity Infinity = "constant" // hold the value of the end key
	LinearInfinity   Infinity = "linear"   // continue along the end key's tangent
	CycleInfinity    Infinity = "cycle"    // repeat the curve
)

// Infinities lists the infinity modes in cycling order.
var Infinities = []Infinity{ConstantInfinity, LinearInfinity, CycleInfinity}

// IsValid is a predicate: is inf a known infinity mode?
func (inf Infinity) IsValid() bool {
	for _, x := range Infinities {
		if x == inf {
			return true
		}
	}
	return false
}

// PasteMode tells Paste how to combine clipboard keys with existing keys.
type PasteMode int

const (
	// Merge replaces existing keys at pasted times and leaves all other keys.
	Merge PasteMode = iota
	// Replace removes existing keys within the pasted span first.
	Replace
)

func (m PasteMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "merge"
}

// === Tangent edits =========================================================

// TangentEdit collects optional changes to one side of a tangent. Start with
// Change() and add the fields to set:
//
//	curve.Change().WithType(tangent.Fixed).WithAngle(30)
type TangentEdit struct {
	typ       tangent.Type
	angle     float64
	weight    float64
	hasAngle  bool
	hasWeight bool
}

// Change returns an empty tangent edit.
func Change() TangentEdit {
	return TangentEdit{}
}

// From returns an edit setting type, angle and, if withWeight is set, the
// weight of tangent tg.
func From(tg Tangent, withWeight bool) TangentEdit {
	e := Change().WithType(tg.Type).WithAngle(tg.Angle)
	if withWeight {
		e = e.WithWeight(tg.Weight)
	}
	return e
}

// WithType sets the tangent type.
func (e TangentEdit) WithType(t tangent.Type) TangentEdit {
	e.typ = t
	return e
}

// WithAngle sets the tangent angle in degrees.
func (e TangentEdit) WithAngle(a float64) TangentEdit {
	e.angle, e.hasAngle = a, true
	return e
}

// WithWeight sets the tangent weight.
func (e TangentEdit) WithWeight(w float64) TangentEdit {
	e.weight, e.hasWeight = w, true
	return e
}

// IsEmpty is a predicate: does e change nothing?
func (e TangentEdit) IsEmpty() bool {
	return e.typ == "" && !e.hasAngle && !e.hasWeight
}

func (e TangentEdit) String() string {
	s := "{"
	if e.typ != "" {
		s += " type=" + string(e.typ)
	}
	if e.hasAngle {
		s += fmt.Sprintf(" angle=%g", e.angle)
	}
	if e.hasWeight {
		s += fmt.Sprintf(" weight=%g", e.weight)
	}
	return s + " }"
}

// === Selection =============================================================

// Handles marks the active tangent handles of a selected key. The zero value
// selects the key as a whole, which activates both handles.
type Handles uint8

const (
	HandleIn Handles = 1 << iota
	HandleOut
)

// WholeKey selects a key without restricting its handles.
const WholeKey Handles = 0

// Has is a predicate: is the handle on side s active?
func (h Handles) Has(s tangent.Side) bool {
	if h == WholeKey {
		return true
	}
	if s == tangent.Out {
		return h&HandleOut != 0
	}
	return h&HandleIn != 0
}

// Selection maps curves to their selected key indices.
type Selection map[ID]map[int]Handles

// NewSelection creates an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// Add selects key index of curve c with handles h.
func (sel Selection) Add(c ID, index int, h Handles) Selection {
	keys, ok := sel[c]
	if !ok {
		keys = make(map[int]Handles)
		sel[c] = keys
	}
	keys[index] = h
	return sel
}

// IsEmpty is a predicate: are no keys selected?
func (sel Selection) IsEmpty() bool {
	for _, keys := range sel {
		if len(keys) > 0 {
			return false
		}
	}
	return true
}

// Curves returns the curves with selected keys, sorted by ID.
func (sel Selection) Curves() []ID {
	ids := make([]ID, 0, len(sel))
	for c, keys := range sel {
		if len(keys) > 0 {
			ids = append(ids, c)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Indices returns the selected key indices of curve c in ascending order.
func (sel Selection) Indices(c ID) []int {
	keys := sel[c]
	ix := make([]int, 0, len(keys))
	for i := range keys {
		ix = append(ix, i)
	}
	sort.Ints(ix)
	return ix
}

// Handles returns the active handles of a selected key and whether the key
// is selected at all.
func (sel Selection) Handles(c ID, index int) (Handles, bool) {
	h, ok := sel[c][index]
	return h, ok
}

// Clone returns a deep copy of sel.
func (sel Selection) Clone() Selection {
	cl := NewSelection()
	for c, keys := range sel {
		for i, h := range keys {
			cl.Add(c, i, h)
		}
	}
	return cl
}
