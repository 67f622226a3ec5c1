package curve

import "github.com/npillmayer/graphed/tangent"

// Store is the keyframe database of a curve editor host. Keys are addressed
// by curve and 0-based index, unless a method says otherwise. All mutations
// report host rejections as errors wrapping graphed.ErrHostOperationFailed
// (or ErrNoSuchCurve / ErrNoSuchKey for addressing failures).
type Store interface {
	// Curves returns all curves loaded into the editor, in editor order.
	Curves() []ID
	// ShownCurves returns the curves currently displayed by the editor.
	ShownCurves() []ID
	// ObjectCurves returns the curves animating the selected objects.
	ObjectCurves() []ID

	// Keys returns the keys of curve c, ordered by time.
	Keys(c ID) ([]Key, error)
	// Key returns key index of curve c.
	Key(c ID, index int) (Key, error)
	// KeyAtTime returns the key of curve c located at time t.
	KeyAtTime(c ID, t float64) (Key, error)
	// Evaluate returns the value of curve c at time t.
	Evaluate(c ID, t float64) (float64, error)

	// SetValue sets the value of a key.
	SetValue(c ID, index int, v float64) error
	// InsertKey inserts a key at time t, keeping the curve's shape. It is a
	// no-op if a key exists at t.
	InsertKey(c ID, t float64) error
	// SetTangent edits one side of a key's tangent. On locked keys, angle
	// and weight edits are ignored.
	SetTangent(c ID, index int, side tangent.Side, e TangentEdit) error
	// SetTangents edits both sides of a key's tangent in one step. This is
	// allowed for locked keys.
	SetTangents(c ID, index int, in, out TangentEdit) error
	// SetActiveTangentTypes assigns tangent types the way the editor's
	// tangent menu does: for a selected key only its active handles change.
	SetActiveTangentTypes(c ID, index int, in, out tangent.Type) error
	// SetLocked locks or unlocks in- and out-tangent of a key.
	SetLocked(c ID, index int, locked bool) error
	// SetWeightLocked locks or unlocks the tangent weights of a key.
	SetWeightLocked(c ID, index int, locked bool) error

	// Infinity returns how curve c continues beyond its first and last key.
	Infinity(c ID) (pre, post Infinity, err error)
	// SetInfinity sets pre- and post-infinity of curve c. An empty mode
	// keeps the current setting.
	SetInfinity(c ID, pre, post Infinity) error

	// CopyRange copies the keys of c within [t0,t1] to the clipboard.
	CopyRange(c ID, t0, t1 float64) error
	// Paste pastes the clipboard into c, with the first clipboard key
	// landing at time t.
	Paste(c ID, t float64, mode PasteMode) error
	// Cut removes the keys of c within [t0,t1].
	Cut(c ID, t0, t1 float64) error
	// ScaleTime scales the times of c's keys within [t0,t1] around pivot.
	ScaleTime(c ID, t0, t1, scale, pivot float64) error
	// SnapTimes rounds the times of c's keys within [t0,t1] to multiples of
	// multiple.
	SnapTimes(c ID, t0, t1, multiple float64) error

	// Selection returns a snapshot of the current key selection.
	Selection() Selection
	// Select adds the keys in sel to the current selection.
	Select(sel Selection)
	// ClearSelection deselects all keys.
	ClearSelection()

	// PlaybackRange returns the host's playback range.
	PlaybackRange() TimeWindow
	// CurrentTime returns the host's current time.
	CurrentTime() float64
	// SetCurrentTime moves the host's current time to t.
	SetCurrentTime(t float64)

	// OpenChunk opens an undo chunk. Chunks nest; all edits until the
	// outermost CloseChunk form one undo step.
	OpenChunk(name string)
	// CloseChunk closes the innermost undo chunk.
	CloseChunk()
}
