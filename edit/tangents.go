package edit

import (
	"fmt"
	"sort"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/config"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/graphed/tangent"
)

// TangentSnapshot is the state of a selected key's tangents, captured before
// editing them. Array fields are indexed by tangent.Side.
type TangentSnapshot struct {
	Types    [2]tangent.Type
	Angles   [2]float64
	Weights  [2]float64
	Weighted bool
	Locked   bool
	// Modified marks the sides the editor's tangent commands act upon.
	Modified [2]bool
	// Up tells whether the curve rises from this key to the next one.
	Up bool
	// Skip is set for keys which will not be edited.
	Skip bool
}

func snapshotOf(k curve.Key) TangentSnapshot {
	return TangentSnapshot{
		Types:    [2]tangent.Type{k.In.Type, k.Out.Type},
		Angles:   [2]float64{k.In.Angle, k.Out.Angle},
		Weights:  [2]float64{k.In.Weight, k.Out.Weight},
		Weighted: k.Weighted,
		Locked:   k.Locked,
	}
}

// restore returns the edit resetting side s to its captured state.
func (snap TangentSnapshot) restore(s tangent.Side) curve.TangentEdit {
	e := curve.Change().WithType(snap.Types[s]).WithAngle(snap.Angles[s])
	if snap.Weighted {
		e = e.WithWeight(snap.Weights[s])
	}
	return e
}

// TangentSession holds the tangent snapshots of the keys selected when it
// was captured. A session may be applied repeatedly, e.g. while dragging a
// slider; every application starts from the captured angles.
type TangentSession struct {
	store curve.Store
	snaps map[curve.ID]map[int]TangentSnapshot
	order []curve.ID
}

func (ts *TangentSession) put(c curve.ID, index int, snap TangentSnapshot) {
	keys, ok := ts.snaps[c]
	if !ok {
		keys = make(map[int]TangentSnapshot)
		ts.snaps[c] = keys
		ts.order = append(ts.order, c)
	}
	keys[index] = snap
}

// Snapshot returns the snapshot of key index of curve c.
func (ts *TangentSession) Snapshot(c curve.ID, index int) (TangentSnapshot, bool) {
	snap, ok := ts.snaps[c][index]
	return snap, ok
}

// CaptureTangents snapshots the tangents of all selected keys and finds out
// which of their sides the editor's tangent commands act upon. To find them,
// the tangent types of each key are bumped to their predecessors through the
// tangent menu command and then restored; sides whose type changed are marked
// as modified.
func (ed *Editor) CaptureTangents() (*TangentSession, error) {
	sel := ed.store.Selection()
	if sel.IsEmpty() {
		return nil, noSelectedKeys()
	}
	ts := &TangentSession{store: ed.store, snaps: make(map[curve.ID]map[int]TangentSnapshot)}
	err := curve.UndoChunk(ed.store, "captureTangents", func() error {
		for _, c := range sel.Curves() {
			keys, err := ed.store.Keys(c)
			if err != nil {
				return err
			}
			for _, i := range sel.Indices(c) {
				snap, err := ed.captureKey(c, keys, i)
				if err != nil {
					return err
				}
				ts.put(c, i, snap)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func noSelectedKeys() error {
	tracer().Infof("tangent edits only work on selected keys")
	return fmt.Errorf("%w: tangent edits need selected keys", graphed.ErrEmptySelection)
}

func (ed *Editor) captureKey(c curve.ID, keys []curve.Key, i int) (TangentSnapshot, error) {
	k := keys[i]
	snap := snapshotOf(k)
	snap.Up, snap.Skip = direction(keys, i, ed.opts.LastKey)
	prevIn, err := tangent.Prev(tangent.InTypes, k.In.Type)
	if err != nil {
		return snap, err
	}
	prevOut, err := tangent.Prev(tangent.OutTypes, k.Out.Type)
	if err != nil {
		return snap, err
	}
	if err = ed.store.SetActiveTangentTypes(c, i, prevIn, prevOut); err != nil {
		return snap, err
	}
	bumped, err := ed.store.Key(c, i)
	if err != nil {
		return snap, err
	}
	snap.Modified[tangent.In] = bumped.In.Type != snap.Types[tangent.In]
	snap.Modified[tangent.Out] = bumped.Out.Type != snap.Types[tangent.Out]
	err = withUnlocked(ed.store, c, i, snap, func(side tangent.Side) error {
		return ed.store.SetTangent(c, i, side, snap.restore(side))
	})
	tracer().Debugf("captured %q #%d: modified in=%v out=%v up=%v", c, i,
		snap.Modified[tangent.In], snap.Modified[tangent.Out], snap.Up)
	return snap, err
}

// direction tells whether the curve rises after key i. The last key has no
// successor and is handled according to policy.
func direction(keys []curve.Key, i int, policy config.LastKeyPolicy) (up bool, skip bool) {
	if i < len(keys)-1 {
		return keys[i+1].Value >= keys[i].Value, false
	}
	if policy == config.LastKeySkip {
		return true, true
	}
	if i > 0 {
		return keys[i].Value >= keys[i-1].Value, false
	}
	return true, false
}

// withUnlocked unlocks key i, calls edit for each modified side and restores
// the key's lock state.
func withUnlocked(s curve.Store, c curve.ID, i int, snap TangentSnapshot, edit func(tangent.Side) error) error {
	if err := s.SetLocked(c, i, false); err != nil {
		return err
	}
	for _, side := range []tangent.Side{tangent.In, tangent.Out} {
		if !snap.Modified[side] {
			continue
		}
		if err := edit(side); err != nil {
			return err
		}
	}
	return s.SetLocked(c, i, snap.Locked)
}

func (ts *TangentSession) each(fn func(c curve.ID, i int, snap TangentSnapshot) error) error {
	for _, c := range ts.order {
		ix := make([]int, 0, len(ts.snaps[c]))
		for i := range ts.snaps[c] {
			ix = append(ix, i)
		}
		sort.Ints(ix)
		for _, i := range ix {
			if err := fn(c, i, ts.snaps[c][i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ScaleTo sets the weight of every modified tangent side to value. Keys
// without weighted tangents are left alone.
func (ts *TangentSession) ScaleTo(value float64) error {
	return curve.UndoChunk(ts.store, "scaleTangentToValue", func() error {
		return ts.each(func(c curve.ID, i int, snap TangentSnapshot) error {
			if !snap.Weighted {
				tracer().Debugf("%q #%d has no weighted tangents, skipping", c, i)
				return nil
			}
			return withUnlocked(ts.store, c, i, snap, func(side tangent.Side) error {
				return ts.store.SetTangent(c, i, side, snap.restore(side).WithWeight(value))
			})
		})
	})
}

// AngleTo sets the angle of every modified tangent side from value, which is
// expected in [0,90]. Keys rising to their successor are angled from their
// captured in-angle towards 90 degrees, falling keys towards -90 degrees.
func (ts *TangentSession) AngleTo(value float64) error {
	return curve.UndoChunk(ts.store, "angleTangentToValue", func() error {
		return ts.each(func(c curve.ID, i int, snap TangentSnapshot) error {
			if snap.Skip {
				tracer().Debugf("%q #%d is the last key, skipping", c, i)
				return nil
			}
			angle, err := tangent.AngleFor(value, snap.Angles[tangent.In], snap.Up)
			if err != nil {
				return err
			}
			return withUnlocked(ts.store, c, i, snap, func(side tangent.Side) error {
				return ts.store.SetTangent(c, i, side, snap.restore(side).WithAngle(angle))
			})
		})
	})
}

// ScaleTangentToValue sets the weights of the selected tangent handles to
// value.
func (ed *Editor) ScaleTangentToValue(value float64) error {
	if ed.store.Selection().IsEmpty() {
		return noSelectedKeys()
	}
	return curve.UndoChunk(ed.store, "scaleTangentToValue", func() error {
		ts, err := ed.CaptureTangents()
		if err != nil {
			return err
		}
		return ts.ScaleTo(value)
	})
}

// AngleTangentToValue re-angles the selected tangent handles, see
// TangentSession.AngleTo.
func (ed *Editor) AngleTangentToValue(value float64) error {
	if ed.store.Selection().IsEmpty() {
		return noSelectedKeys()
	}
	return curve.UndoChunk(ed.store, "angleTangentToValue", func() error {
		ts, err := ed.CaptureTangents()
		if err != nil {
			return err
		}
		return ts.AngleTo(value)
	})
}
