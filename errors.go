package historyx

import "errors"

var (
	// ErrActive is returned by Activate on an engine that is already
	// active. Activation does not partially apply in that case.
	ErrActive = errors.New("engine already active")

	// ErrMissingSurface is wrapped by New when a required platform surface
	// is nil.
	ErrMissingSurface = errors.New("missing platform surface")
)
