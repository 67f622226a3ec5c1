package edit

import (
	"fmt"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/graphed/tangent"
)

// Preset names a pair of tangent types assigned to both sides of a key in
// one go.
type Preset string

const (
	PresetSpline  Preset = "spline"
	PresetLinear  Preset = "linear"
	PresetFlat    Preset = "flat"
	PresetAuto    Preset = "auto"
	PresetStepped Preset = "stepped" // stepnext in, step out
)

func (p Preset) types() (in, out tangent.Type, ok bool) {
	switch p {
	case PresetSpline:
		return tangent.Spline, tangent.Spline, true
	case PresetLinear:
		return tangent.Linear, tangent.Linear, true
	case PresetFlat:
		return tangent.Flat, tangent.Flat, true
	case PresetAuto:
		return tangent.Auto, tangent.Auto, true
	case PresetStepped:
		return tangent.StepNext, tangent.Step, true
	}
	return "", "", false
}

// ApplyTangentPreset assigns the tangent types of preset p to the active
// handles of the selected keys.
func (ed *Editor) ApplyTangentPreset(p Preset) error {
	in, out, ok := p.types()
	if !ok {
		return fmt.Errorf("%w: unknown tangent preset %q", graphed.ErrInvalidArgument, p)
	}
	return ed.eachSelected("tangentPreset", func(c curve.ID, i int) error {
		return ed.store.SetActiveTangentTypes(c, i, in, out)
	})
}

// SetWeightLock locks or frees the tangent weights of the selected keys.
func (ed *Editor) SetWeightLock(locked bool) error {
	return ed.eachSelected("weightLock", func(c curve.ID, i int) error {
		return ed.store.SetWeightLocked(c, i, locked)
	})
}

// SetTangentLock locks or breaks in- and out-tangent of the selected keys.
func (ed *Editor) SetTangentLock(locked bool) error {
	return ed.eachSelected("tangentLock", func(c curve.ID, i int) error {
		return ed.store.SetLocked(c, i, locked)
	})
}

// FreeTangents frees weights and breaks tangents of the selected keys, so
// that each handle can be dragged on its own. SetTangentLock(true) locks
// the tangents again.
func (ed *Editor) FreeTangents() error {
	return ed.eachSelected("freeTangents", func(c curve.ID, i int) error {
		if err := ed.store.SetWeightLocked(c, i, false); err != nil {
			return err
		}
		return ed.store.SetLocked(c, i, false)
	})
}

// eachSelected calls fn for every selected key, inside one undo chunk.
func (ed *Editor) eachSelected(chunk string, fn func(c curve.ID, i int) error) error {
	sel := ed.store.Selection()
	if sel.IsEmpty() {
		tracer().Infof("%s: no keys selected", chunk)
		return fmt.Errorf("%w: %s needs selected keys", graphed.ErrEmptySelection, chunk)
	}
	return curve.UndoChunk(ed.store, chunk, func() error {
		for _, c := range sel.Curves() {
			for _, i := range sel.Indices(c) {
				if err := fn(c, i); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
