package cycle

import (
	"fmt"
	"math"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/config"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/graphed/tangent"
)

// Normalizer crops cyclic curves of a store to the store's playback range.
type Normalizer struct {
	store     curve.Store
	tolerance float64
}

// NewNormalizer creates a normalizer for store s. Start and end values of a
// curve are considered equal if they differ by at most opts.Tolerance.
func NewNormalizer(s curve.Store, opts config.Options) *Normalizer {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = graphed.Tolerance
	}
	return &Normalizer{store: s, tolerance: tol}
}

// CropCycle normalizes all curves animating the selected objects to the
// playback range, as one undo step. It returns graphed.ErrEmptySelection if
// no curve is found, and graphed.ErrDivisionByZero for a playback range
// without extent. Curves which could not be normalized are listed as flagged
// in the report.
func (n *Normalizer) CropCycle() (*Report, error) {
	curves := dedup(n.store.ObjectCurves())
	if len(curves) == 0 {
		tracer().Infof("crop cycle: no curves on selected objects")
		return nil, fmt.Errorf("%w: no animation curves on the selected objects", graphed.ErrEmptySelection)
	}
	w := n.store.PlaybackRange()
	if w.End <= w.Start {
		tracer().Errorf("crop cycle: playback range %s is empty", w)
		return nil, fmt.Errorf("%w: playback range %s has no extent", graphed.ErrDivisionByZero, w)
	}
	sess := newSession(w)
	tracer().Infof("crop cycle of %d curves to %s", len(curves), sess.window)
	err := curve.UndoChunk(n.store, "cropCycle", func() error {
		for _, c := range curves {
			if err := n.normalize(sess, c); err != nil {
				return err
			}
			sess.finish(c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r := sess.report()
	tracer().Infof("%s", r)
	return r, nil
}

func dedup(ids []curve.ID) []curve.ID {
	seen := make(map[curve.ID]bool, len(ids))
	unique := ids[:0:0]
	for _, c := range ids {
		if !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}
	return unique
}

// classify finds the branch for a curve with first and last key times f and l.
func classify(f, l float64, w curve.TimeWindow) State {
	switch {
	case f >= w.Start && l > w.End:
		return TailTrim
	case f < w.Start && l <= w.End:
		return HeadTrim
	case f < w.Start && l > w.End:
		return BothTrim
	case f == w.Start && l == w.End:
		return AlreadyValid
	}
	return Rejected
}

// normalize moves curve c through one branch and checks the values at the
// window boundaries afterwards.
func (n *Normalizer) normalize(sess *Session, c curve.ID) error {
	keys, err := n.store.Keys(c)
	if err != nil {
		return err
	}
	w := sess.window
	if len(keys) == 0 {
		tracer().Infof("curve %q has no keys", c)
		sess.enter(c, Rejected)
		sess.flag(c)
		return nil
	}
	first, last := keys[0], keys[len(keys)-1]
	branch := classify(first.Time, last.Time, w)
	sess.enter(c, branch)
	switch branch {
	case TailTrim:
		err = n.trimTail(c, first, last, w)
	case HeadTrim:
		err = n.trimHead(c, first, last, w)
	case BothTrim:
		err = n.trimBoth(c, first, last, w)
	case Rejected:
		tracer().Infof("curve %q with keys in [%g,%g] does not cover %s", c, first.Time, last.Time, w)
		sess.flag(c)
	}
	if err != nil {
		return err
	}
	return n.checkValues(sess, c)
}

func (n *Normalizer) checkValues(sess *Session, c curve.ID) error {
	w := sess.window
	vs, err := n.store.Evaluate(c, w.Start)
	if err != nil {
		return err
	}
	ve, err := n.store.Evaluate(c, w.End)
	if err != nil {
		return err
	}
	if !graphed.Within(vs, ve, n.tolerance) {
		tracer().Infof("curve %q does not cycle: value %g at %g, %g at %g", c, vs, w.Start, ve, w.End)
		sess.flag(c)
	}
	return nil
}

// trimTail handles curves reaching beyond the end of the window. The part
// of the curve after the window end is moved to the window start.
func (n *Normalizer) trimTail(c curve.ID, first, last curve.Key, w curve.TimeWindow) error {
	end, err := n.keyAt(c, w.End)
	if err != nil {
		return err
	}
	start, err := n.keyAt(c, w.Start)
	if err != nil {
		return err
	}
	if err = n.fixTangent(c, start, tangent.In, last.In, last.Weighted); err != nil {
		return err
	}
	if err = n.fixTangent(c, end, tangent.Out, first.Out, first.Weighted); err != nil {
		return err
	}
	if err = n.store.CopyRange(c, end, last.Time); err != nil {
		return err
	}
	if err = n.store.Paste(c, start, curve.Merge); err != nil {
		return err
	}
	return n.store.Cut(c, after(end), last.Time)
}

// trimHead handles curves starting before the window. The part of the curve
// before the window start is moved behind its last key.
func (n *Normalizer) trimHead(c curve.ID, first, last curve.Key, w curve.TimeWindow) error {
	if err := n.store.CopyRange(c, last.Time, last.Time); err != nil {
		return err
	}
	if err := n.store.Paste(c, first.Time, curve.Merge); err != nil {
		return err
	}
	start, err := n.keyAt(c, w.Start)
	if err != nil {
		return err
	}
	if err = n.store.CopyRange(c, first.Time, start); err != nil {
		return err
	}
	if err = n.store.Paste(c, last.Time, curve.Merge); err != nil {
		return err
	}
	return n.store.Cut(c, first.Time, before(start))
}

// trimBoth handles curves overshooting the window on both sides. Keys
// outside the window are dropped.
func (n *Normalizer) trimBoth(c curve.ID, first, last curve.Key, w curve.TimeWindow) error {
	var bounds [2]float64
	for i, t := range []float64{w.Start, w.End} {
		kt, err := n.keyAt(c, t)
		if err != nil {
			return err
		}
		k, err := n.store.KeyAtTime(c, kt)
		if err != nil {
			return err
		}
		fix := curve.Change().WithType(tangent.Fixed)
		if err = n.store.SetTangents(c, k.Index, fix, fix); err != nil {
			return err
		}
		bounds[i] = kt
	}
	if err := n.store.Cut(c, first.Time, before(bounds[0])); err != nil {
		return err
	}
	return n.store.Cut(c, after(bounds[1]), last.Time)
}

// keyAt makes sure curve c has a key at time t and returns the key's time.
// An existing key close to t is used as it is.
func (n *Normalizer) keyAt(c curve.ID, t float64) (float64, error) {
	if err := n.store.InsertKey(c, t); err != nil {
		return 0, err
	}
	k, err := n.store.KeyAtTime(c, t)
	if err != nil {
		return 0, err
	}
	return k.Time, nil
}

// fixTangent sets one side of the key at time t to a fixed tangent taken
// from tg. The key's lock state is kept.
func (n *Normalizer) fixTangent(c curve.ID, t float64, side tangent.Side, tg curve.Tangent, weighted bool) error {
	k, err := n.store.KeyAtTime(c, t)
	if err != nil {
		return err
	}
	e := curve.Change().WithType(tangent.Fixed).WithAngle(tg.Angle)
	if weighted && k.Weighted {
		e = e.WithWeight(tg.Weight)
	}
	if err = n.store.SetLocked(c, k.Index, false); err != nil {
		return err
	}
	if err = n.store.SetTangent(c, k.Index, side, e); err != nil {
		return err
	}
	return n.store.SetLocked(c, k.Index, k.Locked)
}

// after is the first time beyond t, so that cutting from there keeps a key
// at t, even at fractional frames.
func after(t float64) float64 {
	return math.Nextafter(t, math.Inf(1))
}

func before(t float64) float64 {
	return math.Nextafter(t, math.Inf(-1))
}
