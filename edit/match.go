package edit

import (
	"fmt"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/curve"
)

// Pivot names the key MatchKeys copies from.
type Pivot string

const (
	PivotFirst Pivot = "first"
	PivotLast  Pivot = "last"
)

// MatchKeys copies value and tangents of the pivot key of each curve onto
// the key at the other end of the curve: PivotFirst copies the first key onto
// the last one, PivotLast the last one onto the first. Only value and
// tangents of the target key change.
//
// MatchKeys works on the curves having selected keys, or on all shown curves
// if there is no selection. Curves with less than two keys are skipped.
func (ed *Editor) MatchKeys(pivot Pivot) error {
	if pivot != PivotFirst && pivot != PivotLast {
		return fmt.Errorf("%w: pivot must be %q or %q, is %q", graphed.ErrInvalidArgument,
			PivotFirst, PivotLast, pivot)
	}
	curves := ed.store.Selection().Curves()
	if len(curves) == 0 {
		curves = ed.store.ShownCurves()
	}
	if len(curves) == 0 {
		return fmt.Errorf("%w: no curves to match", graphed.ErrEmptySelection)
	}
	return curve.UndoChunk(ed.store, "matchKeys", func() error {
		for _, c := range curves {
			if err := ed.matchCurve(c, pivot); err != nil {
				return err
			}
		}
		return nil
	})
}

func (ed *Editor) matchCurve(c curve.ID, pivot Pivot) error {
	keys, err := ed.store.Keys(c)
	if err != nil {
		return err
	}
	if len(keys) < 2 {
		tracer().Debugf("match keys: %q has %d keys, skipping", c, len(keys))
		return nil
	}
	from, to := keys[0], keys[len(keys)-1]
	if pivot == PivotLast {
		from, to = to, from
	}
	tracer().Debugf("match keys: %q %s -> %s", c, from, to)
	if err = ed.store.SetValue(c, to.Index, from.Value); err != nil {
		return err
	}
	weights := from.Weighted && to.Weighted
	return ed.store.SetTangents(c, to.Index, curve.From(from.In, weights), curve.From(from.Out, weights))
}
