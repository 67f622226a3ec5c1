package curve

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/tangent"
)

// keyData is the stored form of a key. Time and index live in the tree map.
type keyData struct {
	value    float64
	in, out  Tangent
	weighted bool
	locked   bool
	wlocked  bool // weights locked
}

func (kd *keyData) tangent(s tangent.Side) *Tangent {
	if s == tangent.Out {
		return &kd.out
	}
	return &kd.in
}

func (kd *keyData) copy() *keyData {
	c := *kd
	return &c
}

type animCurve struct {
	id   ID
	node string
	keys *treemap.Map // time => *keyData, sorted by time
	pre  Infinity
	post Infinity
}

func newAnimCurve(id ID, node string) *animCurve {
	return &animCurve{
		id:   id,
		node: node,
		keys: treemap.NewWith(utils.Float64Comparator),
		pre:  ConstantInfinity,
		post: ConstantInfinity,
	}
}

func (ac *animCurve) N() int {
	return ac.keys.Size()
}

// at returns time and data of key index.
func (ac *animCurve) at(index int) (float64, *keyData, bool) {
	if index < 0 || index >= ac.N() {
		return 0, nil, false
	}
	it := ac.keys.Iterator()
	for i := 0; it.Next(); i++ {
		if i == index {
			return it.Key().(float64), it.Value().(*keyData), true
		}
	}
	return 0, nil, false
}

// find locates a key within ε of time t.
func (ac *animCurve) find(t float64) (float64, *keyData, bool) {
	if k, v := ac.keys.Floor(t); k != nil && graphed.Is0(t-k.(float64)) {
		return k.(float64), v.(*keyData), true
	}
	if k, v := ac.keys.Ceiling(t); k != nil && graphed.Is0(k.(float64)-t) {
		return k.(float64), v.(*keyData), true
	}
	return 0, nil, false
}

func (ac *animCurve) indexOf(t float64) int {
	it := ac.keys.Iterator()
	for i := 0; it.Next(); i++ {
		if it.Key().(float64) == t {
			return i
		}
	}
	return -1
}

// within returns the times of all keys in [t0,t1], ascending. Unlike find,
// the bounds are exact, so that ranges may end just beyond a key. Callers
// addressing a key close to a bound pass the key's own time.
func (ac *animCurve) within(t0, t1 float64) []float64 {
	var ts []float64
	it := ac.keys.Iterator()
	for it.Next() {
		t := it.Key().(float64)
		if t >= t0 && t <= t1 {
			ts = append(ts, t)
		}
	}
	return ts
}

func (ac *animCurve) list() []Key {
	keys := make([]Key, 0, ac.N())
	it := ac.keys.Iterator()
	for i := 0; it.Next(); i++ {
		keys = append(keys, makeKey(i, it.Key().(float64), it.Value().(*keyData)))
	}
	return keys
}

func (ac *animCurve) clone() *animCurve {
	cl := newAnimCurve(ac.id, ac.node)
	cl.pre, cl.post = ac.pre, ac.post
	it := ac.keys.Iterator()
	for it.Next() {
		cl.keys.Put(it.Key(), it.Value().(*keyData).copy())
	}
	return cl
}

func makeKey(index int, t float64, kd *keyData) Key {
	return Key{
		Index:    index,
		Time:     t,
		Value:    kd.value,
		In:       kd.in,
		Out:      kd.out,
		Weighted:     kd.weighted,
		Locked:       kd.locked,
		WeightLocked: kd.wlocked,
	}
}

type clipKey struct {
	offset float64
	data   *keyData
}

// MemStore is an in-memory Store. The zero value is not usable, create
// instances with NewMemStore.
type MemStore struct {
	order       []ID
	curves      map[ID]*animCurve
	shown       []ID
	objects     []string // selected objects
	selection   Selection
	playback    TimeWindow
	now         float64 // current time
	clipboard   []clipKey
	defaultType tangent.Type
	chunks      int       // open undo chunks
	chunkName   string    // name of the outermost open chunk
	pending     *memState // state when the outermost chunk opened
	undo        []undoStep
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty store with playback range [0,1] and auto as
// the default tangent type.
func NewMemStore() *MemStore {
	return &MemStore{
		curves:      make(map[ID]*animCurve),
		selection:   NewSelection(),
		playback:    TimeWindow{Start: 0, End: 1},
		defaultType: tangent.Auto,
	}
}

// K is a quick notation for a key at time t with value v. Its tangents are
// set to the store's default type when the key is added to a curve.
func K(t, v float64) Key {
	return Key{Time: t, Value: v}
}

// AddCurve adds curve c, animating node, with the given keys. Keys without
// a tangent type get the store's default type on both sides, with the
// default angle for their position on the curve.
func (s *MemStore) AddCurve(c ID, node string, keys ...Key) error {
	if _, exists := s.curves[c]; exists {
		return fmt.Errorf("%w: curve %q already exists", graphed.ErrHostOperationFailed, c)
	}
	ac := newAnimCurve(c, node)
	var untyped []float64
	for _, k := range keys {
		if _, _, dup := ac.find(k.Time); dup {
			return fmt.Errorf("%w: curve %q has two keys at time %g", graphed.ErrHostOperationFailed, c, k.Time)
		}
		kd := &keyData{value: k.Value, in: k.In, out: k.Out, weighted: k.Weighted,
			locked: k.Locked, wlocked: k.WeightLocked}
		if kd.in.Weight == 0 {
			kd.in.Weight = 1
		}
		if kd.out.Weight == 0 {
			kd.out.Weight = 1
		}
		if kd.in.Type == "" || kd.out.Type == "" {
			untyped = append(untyped, k.Time)
		}
		ac.keys.Put(k.Time, kd)
	}
	for _, t := range untyped { // all keys are in place, neighbours are known
		_, kd, _ := ac.find(t)
		i := ac.indexOf(t)
		for _, side := range []tangent.Side{tangent.In, tangent.Out} {
			if kd.tangent(side).Type == "" {
				kd.tangent(side).Type = tangent.Counterpart(s.defaultType, side)
				s.applyDefault(ac, i, side, kd)
			}
		}
	}
	s.curves[c] = ac
	s.order = append(s.order, c)
	tracer().Debugf("added curve %q with %d keys", c, ac.N())
	return nil
}

// SetDefaultTangent sets the tangent type of newly created keys.
func (s *MemStore) SetDefaultTangent(t tangent.Type) {
	s.defaultType = t
}

// SetPlaybackRange sets the host's playback range.
func (s *MemStore) SetPlaybackRange(w TimeWindow) {
	s.playback = w
}

// SelectObjects replaces the object selection.
func (s *MemStore) SelectObjects(nodes ...string) {
	s.objects = append([]string(nil), nodes...)
}

// Show restricts the editor display to the given curves. Calling it without
// arguments shows all curves.
func (s *MemStore) Show(ids ...ID) {
	s.shown = append([]ID(nil), ids...)
}

func (s *MemStore) curve(c ID) (*animCurve, error) {
	ac, ok := s.curves[c]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", graphed.ErrHostOperationFailed, graphed.ErrNoSuchCurve, c)
	}
	return ac, nil
}

func (s *MemStore) lookup(c ID, index int) (*animCurve, *keyData, error) {
	ac, err := s.curve(c)
	if err != nil {
		return nil, nil, err
	}
	_, kd, ok := ac.at(index)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %w: %q has no key #%d", graphed.ErrHostOperationFailed,
			graphed.ErrNoSuchKey, c, index)
	}
	return ac, kd, nil
}

// --- Queries ---------------------------------------------------------------

// Curves is part of interface Store.
func (s *MemStore) Curves() []ID {
	return append([]ID(nil), s.order...)
}

// ShownCurves is part of interface Store.
func (s *MemStore) ShownCurves() []ID {
	if len(s.shown) == 0 {
		return s.Curves()
	}
	return append([]ID(nil), s.shown...)
}

// ObjectCurves is part of interface Store.
func (s *MemStore) ObjectCurves() []ID {
	var ids []ID
	for _, c := range s.order {
		for _, node := range s.objects {
			if s.curves[c].node == node {
				ids = append(ids, c)
				break
			}
		}
	}
	return ids
}

// Keys is part of interface Store.
func (s *MemStore) Keys(c ID) ([]Key, error) {
	ac, err := s.curve(c)
	if err != nil {
		return nil, err
	}
	return ac.list(), nil
}

// Key is part of interface Store.
func (s *MemStore) Key(c ID, index int) (Key, error) {
	ac, kd, err := s.lookup(c, index)
	if err != nil {
		return Key{}, err
	}
	t, _, _ := ac.at(index)
	return makeKey(index, t, kd), nil
}

// KeyAtTime is part of interface Store.
func (s *MemStore) KeyAtTime(c ID, t float64) (Key, error) {
	ac, err := s.curve(c)
	if err != nil {
		return Key{}, err
	}
	kt, kd, ok := ac.find(t)
	if !ok {
		return Key{}, fmt.Errorf("%w: %w: %q has no key at %g", graphed.ErrHostOperationFailed,
			graphed.ErrNoSuchKey, c, t)
	}
	return makeKey(ac.indexOf(kt), kt, kd), nil
}

// Evaluate is part of interface Store.
func (s *MemStore) Evaluate(c ID, t float64) (float64, error) {
	ac, err := s.curve(c)
	if err != nil {
		return 0, err
	}
	return ac.value(t), nil
}

// --- Key edits -------------------------------------------------------------

// SetValue is part of interface Store.
func (s *MemStore) SetValue(c ID, index int, v float64) error {
	_, kd, err := s.lookup(c, index)
	if err != nil {
		return err
	}
	kd.value = v
	return nil
}

// InsertKey is part of interface Store.
func (s *MemStore) InsertKey(c ID, t float64) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	if _, _, exists := ac.find(t); exists {
		return nil
	}
	keys := ac.list()
	angle := tangent.Angle(slopeAt(keys, t))
	kd := &keyData{
		value: ac.value(t),
		in:    Tangent{Type: tangent.Counterpart(s.defaultType, tangent.In), Angle: angle, Weight: 1},
		out:   Tangent{Type: tangent.Counterpart(s.defaultType, tangent.Out), Angle: angle, Weight: 1},
	}
	if len(keys) > 0 {
		kd.weighted = keys[0].Weighted
	}
	ac.keys.Put(t, kd)
	s.pruneSelection(c)
	tracer().Debugf("inserted key into %q at %g, value %g", c, t, kd.value)
	return nil
}

// applyDefault sets the default angle the type of tangent side takes at
// key index.
func (s *MemStore) applyDefault(ac *animCurve, index int, side tangent.Side, kd *keyData) {
	tg := kd.tangent(side)
	angle, ok := tangent.DefaultAngle(tg.Type, side, neighbourhood(ac.list(), index))
	if !ok {
		return
	}
	tg.Angle = angle
	if kd.weighted && !kd.wlocked {
		tg.Weight = 1
	}
}

func neighbourhood(keys []Key, index int) tangent.Neighbourhood {
	k := keys[index]
	n := tangent.Neighbourhood{Cur: graphed.P(k.Time, k.Value)}
	if index > 0 {
		n.Prev, n.HasPrev = graphed.P(keys[index-1].Time, keys[index-1].Value), true
	}
	if index < len(keys)-1 {
		n.Next, n.HasNext = graphed.P(keys[index+1].Time, keys[index+1].Value), true
	}
	return n
}

func checkEdit(c ID, index int, side tangent.Side, e TangentEdit, kd *keyData) error {
	if e.typ != "" && !tangent.IsValid(side, e.typ) {
		return fmt.Errorf("%w: %w: %q for %s-tangent of %q #%d", graphed.ErrHostOperationFailed,
			graphed.ErrInvalidTangentType, e.typ, side, c, index)
	}
	if e.hasWeight && !kd.weighted {
		return fmt.Errorf("%w: key %q #%d has no weighted tangents", graphed.ErrHostOperationFailed, c, index)
	}
	return nil
}

// SetTangent is part of interface Store.
func (s *MemStore) SetTangent(c ID, index int, side tangent.Side, e TangentEdit) error {
	ac, kd, err := s.lookup(c, index)
	if err != nil {
		return err
	}
	if err = checkEdit(c, index, side, e, kd); err != nil {
		tracer().Errorf("%v", err)
		return err
	}
	tg := kd.tangent(side)
	if e.typ != "" {
		tg.Type = e.typ
		if !kd.locked {
			s.applyDefault(ac, index, side, kd)
		}
	}
	if kd.locked && (e.hasAngle || e.hasWeight) {
		tracer().Debugf("%q #%d is locked, ignoring %s-tangent edit %s", c, index, side, e)
		return nil
	}
	if e.hasAngle {
		tg.Angle = e.angle
	}
	if e.hasWeight {
		tg.Weight = e.weight
	}
	return nil
}

// SetTangents is part of interface Store.
func (s *MemStore) SetTangents(c ID, index int, in, out TangentEdit) error {
	ac, kd, err := s.lookup(c, index)
	if err != nil {
		return err
	}
	edits := [2]TangentEdit{in, out}
	sides := [2]tangent.Side{tangent.In, tangent.Out}
	for i, side := range sides {
		if err = checkEdit(c, index, side, edits[i], kd); err != nil {
			tracer().Errorf("%v", err)
			return err
		}
	}
	for i, side := range sides {
		if edits[i].typ != "" {
			kd.tangent(side).Type = edits[i].typ
			s.applyDefault(ac, index, side, kd)
		}
	}
	for i, side := range sides {
		tg := kd.tangent(side)
		if edits[i].hasAngle {
			tg.Angle = edits[i].angle
		}
		if edits[i].hasWeight {
			tg.Weight = edits[i].weight
		}
	}
	return nil
}

// SetActiveTangentTypes is part of interface Store.
func (s *MemStore) SetActiveTangentTypes(c ID, index int, in, out tangent.Type) error {
	ac, kd, err := s.lookup(c, index)
	if err != nil {
		return err
	}
	h, _ := s.selection.Handles(c, index)
	types := [2]tangent.Type{in, out}
	for i, side := range []tangent.Side{tangent.In, tangent.Out} {
		if types[i] == "" || !h.Has(side) {
			continue
		}
		if !tangent.IsValid(side, types[i]) {
			return fmt.Errorf("%w: %w: %q for %s-tangent", graphed.ErrHostOperationFailed,
				graphed.ErrInvalidTangentType, types[i], side)
		}
		kd.tangent(side).Type = types[i]
		s.applyDefault(ac, index, side, kd)
	}
	return nil
}

// SetLocked is part of interface Store.
func (s *MemStore) SetLocked(c ID, index int, locked bool) error {
	_, kd, err := s.lookup(c, index)
	if err != nil {
		return err
	}
	kd.locked = locked
	return nil
}

// SetWeightLocked is part of interface Store.
func (s *MemStore) SetWeightLocked(c ID, index int, locked bool) error {
	_, kd, err := s.lookup(c, index)
	if err != nil {
		return err
	}
	kd.wlocked = locked
	return nil
}

// Infinity is part of interface Store.
func (s *MemStore) Infinity(c ID) (Infinity, Infinity, error) {
	ac, err := s.curve(c)
	if err != nil {
		return "", "", err
	}
	return ac.pre, ac.post, nil
}

// SetInfinity is part of interface Store.
func (s *MemStore) SetInfinity(c ID, pre, post Infinity) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	for _, inf := range []Infinity{pre, post} {
		if inf != "" && !inf.IsValid() {
			return fmt.Errorf("%w: %w: unknown infinity %q", graphed.ErrHostOperationFailed,
				graphed.ErrInvalidArgument, inf)
		}
	}
	if pre != "" {
		ac.pre = pre
	}
	if post != "" {
		ac.post = post
	}
	tracer().Debugf("infinity of %q is %s/%s", c, ac.pre, ac.post)
	return nil
}

// --- Range edits -----------------------------------------------------------

// CopyRange is part of interface Store.
func (s *MemStore) CopyRange(c ID, t0, t1 float64) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	ts := ac.within(t0, t1)
	if len(ts) == 0 {
		return fmt.Errorf("%w: %w: %q has no keys in [%g,%g]", graphed.ErrHostOperationFailed,
			graphed.ErrNoSuchKey, c, t0, t1)
	}
	s.clipboard = s.clipboard[:0]
	for _, t := range ts {
		_, kd, _ := ac.find(t)
		s.clipboard = append(s.clipboard, clipKey{offset: t - ts[0], data: kd.copy()})
	}
	tracer().Debugf("copied %d keys of %q from [%g,%g]", len(ts), c, t0, t1)
	return nil
}

// Paste is part of interface Store.
//
// In Merge mode, a clipboard key landing on an existing key replaces it,
// except that the first clipboard key keeps the existing in-tangent and the
// last clipboard key keeps the existing out-tangent.
func (s *MemStore) Paste(c ID, t float64, mode PasteMode) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	n := len(s.clipboard)
	if n == 0 {
		return fmt.Errorf("%w: clipboard is empty", graphed.ErrHostOperationFailed)
	}
	if mode == Replace {
		for _, tt := range ac.within(t, t+s.clipboard[n-1].offset) {
			ac.keys.Remove(tt)
		}
	}
	for i, ck := range s.clipboard {
		tt := t + ck.offset
		nk := ck.data.copy()
		if et, existing, ok := ac.find(tt); ok {
			if i == 0 {
				nk.in = existing.in
			}
			if i == n-1 {
				nk.out = existing.out
			}
			tt = et
		}
		ac.keys.Put(tt, nk)
	}
	s.pruneSelection(c)
	tracer().Debugf("pasted %d keys into %q at %g (%s)", n, c, t, mode)
	return nil
}

// Cut is part of interface Store.
func (s *MemStore) Cut(c ID, t0, t1 float64) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	ts := ac.within(t0, t1)
	for _, t := range ts {
		ac.keys.Remove(t)
	}
	s.pruneSelection(c)
	tracer().Debugf("cut %d keys of %q in [%g,%g]", len(ts), c, t0, t1)
	return nil
}

// ScaleTime is part of interface Store.
//
// Tangent directions are transformed along with the key times. A negative
// scale reverses time, so in- and out-tangents change roles. Keys must not
// be moved onto keys outside [t0,t1]; such a scaling is rejected without
// changing the curve.
func (s *MemStore) ScaleTime(c ID, t0, t1, scale, pivot float64) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	if graphed.Is0(scale) {
		return fmt.Errorf("%w: time scale must not be 0", graphed.ErrInvalidArgument)
	}
	m := graphed.TimeScaling(scale, pivot)
	ts := ac.within(t0, t1)
	inRange := make(map[float64]bool, len(ts))
	for _, t := range ts {
		inRange[t] = true
	}
	for _, t := range ts {
		target := m.Transform(graphed.P(t, 0)).T()
		if et, _, hit := ac.find(target); hit && !inRange[et] {
			return fmt.Errorf("%w: scaling %q moves key at %g onto key at %g", graphed.ErrHostOperationFailed,
				c, t, et)
		}
	}
	moved := make(map[float64]*keyData, len(ts))
	for _, t := range ts {
		_, kd, _ := ac.find(t)
		ac.keys.Remove(t)
		nk := kd.copy()
		nk.in.Angle = tangent.AngleOf(m.TransformDir(tangent.Direction(kd.in.Angle)))
		nk.out.Angle = tangent.AngleOf(m.TransformDir(tangent.Direction(kd.out.Angle)))
		if m.Reverses() {
			nk.in, nk.out = nk.out, nk.in
			nk.in.Type = tangent.Counterpart(nk.in.Type, tangent.In)
			nk.out.Type = tangent.Counterpart(nk.out.Type, tangent.Out)
		}
		moved[m.Transform(graphed.P(t, kd.value)).T()] = nk
	}
	for t, kd := range moved {
		ac.keys.Put(t, kd)
	}
	tracer().Debugf("scaled %d keys of %q by %g around %g", len(ts), c, scale, pivot)
	return nil
}

// SnapTimes is part of interface Store.
//
// When several keys snap to the same frame, the key which was closest to
// that frame wins; ties go to the later key. Keys outside [t0,t1] are never
// displaced.
func (s *MemStore) SnapTimes(c ID, t0, t1, multiple float64) error {
	ac, err := s.curve(c)
	if err != nil {
		return err
	}
	if multiple <= 0 {
		return fmt.Errorf("%w: snap multiple must be positive, is %g", graphed.ErrInvalidArgument, multiple)
	}
	type candidate struct {
		data   *keyData
		dist   float64
		static bool
	}
	ts := ac.within(t0, t1)
	winners := make(map[float64]candidate)
	it := ac.keys.Iterator()
	for it.Next() {
		winners[it.Key().(float64)] = candidate{data: it.Value().(*keyData), static: true}
	}
	for _, t := range ts {
		delete(winners, t)
	}
	for _, t := range ts { // ascending, so later keys win ties
		_, kd, _ := ac.find(t)
		target := graphed.SnapTo(t, multiple)
		dist := math.Abs(t - target)
		if w, taken := winners[target]; taken && (w.static || w.dist < dist) {
			tracer().Infof("snapping %q: key at %g collides at frame %g and is dropped", c, t, target)
			continue
		} else if taken {
			tracer().Infof("snapping %q: key at %g replaces colliding key at frame %g", c, t, target)
		}
		winners[target] = candidate{data: kd, dist: dist}
	}
	ac.keys.Clear()
	for t, w := range winners {
		ac.keys.Put(t, w.data)
	}
	s.pruneSelection(c)
	return nil
}

// --- Selection -------------------------------------------------------------

// Selection is part of interface Store.
func (s *MemStore) Selection() Selection {
	return s.selection.Clone()
}

// Select is part of interface Store. Keys which do not exist are skipped.
func (s *MemStore) Select(sel Selection) {
	for c, keys := range sel {
		ac, ok := s.curves[c]
		if !ok {
			continue
		}
		for i, h := range keys {
			if i >= 0 && i < ac.N() {
				s.selection.Add(c, i, h)
			}
		}
	}
}

// ClearSelection is part of interface Store.
func (s *MemStore) ClearSelection() {
	s.selection = NewSelection()
}

// pruneSelection drops selected indices beyond the end of curve c.
func (s *MemStore) pruneSelection(c ID) {
	keys, ok := s.selection[c]
	if !ok {
		return
	}
	n := s.curves[c].N()
	for i := range keys {
		if i >= n {
			delete(keys, i)
		}
	}
}

// PlaybackRange is part of interface Store.
func (s *MemStore) PlaybackRange() TimeWindow {
	return s.playback
}

// CurrentTime is part of interface Store.
func (s *MemStore) CurrentTime() float64 {
	return s.now
}

// SetCurrentTime is part of interface Store.
func (s *MemStore) SetCurrentTime(t float64) {
	s.now = t
}
