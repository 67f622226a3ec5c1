package edit

import (
	"fmt"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/curve"
)

// CycleInfinity steps pre- and post-infinity of the curves back by one mode
// in curve.Infinities (constant → cycle → linear → constant), starting from
// the pre-infinity of the first curve. It works on the curves having
// selected keys, or on all shown curves if there is no selection, and
// returns the new mode.
func (ed *Editor) CycleInfinity() (curve.Infinity, error) {
	curves := ed.store.Selection().Curves()
	if len(curves) == 0 {
		curves = ed.store.ShownCurves()
	}
	if len(curves) == 0 {
		return "", fmt.Errorf("%w: no curves to set infinity for", graphed.ErrEmptySelection)
	}
	current, _, err := ed.store.Infinity(curves[0])
	if err != nil {
		return "", err
	}
	next, ok := graphed.Circular(curve.Infinities, current, -1)
	if !ok {
		return "", fmt.Errorf("%w: unknown infinity %q", graphed.ErrInvalidArgument, current)
	}
	tracer().Infof("infinity of %d curves: %s", len(curves), next)
	err = curve.UndoChunk(ed.store, "cycleInfinity", func() error {
		for _, c := range curves {
			if err := ed.store.SetInfinity(c, next, next); err != nil {
				return err
			}
		}
		return nil
	})
	return next, err
}

// SetTimeToSelected moves the current time to the earliest selected key and
// returns it. Without selected keys the current time stays where it is.
func (ed *Editor) SetTimeToSelected() (float64, error) {
	sel := ed.store.Selection()
	if sel.IsEmpty() {
		return ed.store.CurrentTime(), nil
	}
	first, found := 0.0, false
	for _, c := range sel.Curves() {
		for _, i := range sel.Indices(c) {
			k, err := ed.store.Key(c, i)
			if err != nil {
				return ed.store.CurrentTime(), err
			}
			if !found || k.Time < first {
				first, found = k.Time, true
			}
		}
	}
	ed.store.SetCurrentTime(first)
	return first, nil
}
