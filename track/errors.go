package track

import (
	"errors"
	"fmt"
)

// Sentinel errors for track package.
var (
	// ErrOutOfRange matches every *RangeError via errors.Is.
	ErrOutOfRange = errors.New("track: time out of range")

	// ErrNotFinalized is returned by prefix-sum queries before Finalize.
	ErrNotFinalized = errors.New("track: prefix sums not computed, call Finalize")

	// ErrBadSmoothness is returned when a smoothing window is not positive.
	ErrBadSmoothness = errors.New("track: smoothness must be positive")

	// ErrUserMismatch is returned when samples of different users are mixed.
	ErrUserMismatch = errors.New("track: samples belong to different users")

	// ErrNoSamples is returned when a session is built without head samples.
	ErrNoSamples = errors.New("track: no head samples")
)

// RangeError reports a time that maps outside the recorded samples.
type RangeError struct {
	Time  float64
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("track: time %g maps to index %d, outside [0, %d)", e.Time, e.Index, e.Len)
}

// Is reports whether target is ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
