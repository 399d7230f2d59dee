package clock

import "errors"

// ErrorKind classifies a clock failure. New kinds may be added; callers
// switching on a kind should keep a default branch.
type ErrorKind uint8

const (
	// Unspecified is a driver failure with no more specific kind.
	Unspecified ErrorKind = iota

	// NotRunning means the clock is stopped and will not recover on its own.
	NotRunning
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case Unspecified:
		return "unspecified"
	case NotRunning:
		return "not running"
	default:
		return "unknown"
	}
}

// Error is the error type returned by Clock.TryNow. Err optionally carries
// the driver's own cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

// Clock error sentinels, for use with errors.Is. They match any *Error of
// the same kind regardless of cause.
var (
	ErrUnspecified = &Error{Kind: Unspecified}
	ErrNotRunning  = &Error{Kind: NotRunning}
)

// ErrInstantOverflow is returned when an offset is too large to add to an
// Instant without making its order relative to the original ambiguous.
var ErrInstantOverflow = errors.New("clock: instant offset exceeds half the counter range")

// NewError wraps a driver cause in a clock error of the given kind.
func NewError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

func (e *Error) Error() string {
	msg := "clock: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the driver cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a sentinel *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of a clock error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return Unspecified, false
}
