package graphed

import "errors"

// Argument errors
var (
	// ErrInvalidArgument indicates a malformed argument, e.g. a pivot name
	// other than "first" or "last".
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDivisionByZero indicates a degenerate remap, lerp or window.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidTangentType indicates a tangent type outside of the type list
	// it was looked up in.
	ErrInvalidTangentType = errors.New("invalid tangent type")
)

// Selection errors
var (
	// ErrEmptySelection indicates there are no curves or keys to operate on.
	// Operations returning it have not touched any state; callers treat it as
	// a notice, not as a failure.
	ErrEmptySelection = errors.New("nothing selected")
)

// Host errors
var (
	// ErrHostOperationFailed indicates that the curve store rejected a
	// mutation.
	ErrHostOperationFailed = errors.New("host operation failed")

	// ErrNoSuchCurve indicates a curve ID unknown to the store.
	ErrNoSuchCurve = errors.New("no such curve")

	// ErrNoSuchKey indicates a key index or time without a key.
	ErrNoSuchKey = errors.New("no such key")
)
