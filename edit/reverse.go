package edit

import (
	"fmt"
	"math"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/curve"
)

// ReverseKeysHorizontal mirrors a key range in time. The range spans the
// selected keys, or all keys of the shown curves if no key is selected.
// Every affected curve is mirrored around the middle of the range, then its
// keys within the range are snapped to the frame grid. The key selection is
// restored afterwards.
//
// If snapping makes keys collide, the key closest to the frame survives.
func (ed *Editor) ReverseKeysHorizontal() error {
	curves, ts, err := ed.affectedKeys()
	if err != nil {
		return err
	}
	if len(ts) == 0 {
		tracer().Infof("reverse keys: no keys to reverse")
		return fmt.Errorf("%w: no keys to reverse", graphed.ErrEmptySelection)
	}
	first, last := math.Inf(1), math.Inf(-1)
	for _, t := range ts {
		first, last = math.Min(first, t), math.Max(last, t)
	}
	pivot := (first + last) / 2
	tracer().Infof("reverse keys of %d curves in [%g,%g] around %g", len(curves), first, last, pivot)
	return curve.UndoChunk(ed.store, "reverseKeysHorizontal", func() error {
		for _, c := range curves {
			if err := ed.store.ScaleTime(c, first, last, -1, pivot); err != nil {
				return err
			}
		}
		return ed.snapKeys(curves, first, last)
	})
}

// snapKeys snaps by time range, which requires an empty key selection.
func (ed *Editor) snapKeys(curves []curve.ID, first, last float64) error {
	return curve.PreservingSelection(ed.store, func() error {
		ed.store.ClearSelection()
		for _, c := range curves {
			// mirrored times may be off from the range bounds by rounding
			if err := ed.store.SnapTimes(c, first-graphed.Epsilon, last+graphed.Epsilon, ed.opts.SnapMultiple); err != nil {
				return err
			}
		}
		return nil
	})
}

// affectedKeys returns the curves to operate on and the times of their
// relevant keys.
func (ed *Editor) affectedKeys() ([]curve.ID, []float64, error) {
	var ts []float64
	sel := ed.store.Selection()
	if !sel.IsEmpty() {
		curves := sel.Curves()
		for _, c := range curves {
			for _, i := range sel.Indices(c) {
				k, err := ed.store.Key(c, i)
				if err != nil {
					return nil, nil, err
				}
				ts = append(ts, k.Time)
			}
		}
		return curves, ts, nil
	}
	curves := ed.store.ShownCurves()
	for _, c := range curves {
		keys, err := ed.store.Keys(c)
		if err != nil {
			return nil, nil, err
		}
		for _, k := range keys {
			ts = append(ts, k.Time)
		}
	}
	return curves, ts, nil
}
