package ribbon

import "errors"

// Sentinel errors for ribbon package.
var (
	// ErrNoGeometry is returned by SetHighlights before SetValues has
	// produced a centerline.
	ErrNoGeometry = errors.New("ribbon: call SetValues before SetHighlights")

	// ErrLengthMismatch is returned when parallel input slices differ in
	// length.
	ErrLengthMismatch = errors.New("ribbon: input slices differ in length")
)
