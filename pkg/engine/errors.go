package engine

import "errors"

// Sentinel errors for engine lifecycle operations
var (
	// Activation errors
	ErrAlreadyActivated    = errors.New("engine context is already activated")
	ErrNotActivated        = errors.New("engine context is not activated")
	ErrStreamShapeMismatch = errors.New("stream channel counts do not match the configured graph channels")
	ErrInvalidStreamInfo   = errors.New("invalid stream info")
)
