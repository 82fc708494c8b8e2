package config

import "errors"

// Sentinel errors for configuration validation
var (
	// Capacity errors
	ErrInvalidNodeCapacity    = errors.New("invalid node capacity: must be positive")
	ErrInvalidMessageCapacity = errors.New("invalid message queue capacity: must be positive")
	ErrInvalidReturnCapacity  = errors.New("invalid return queue capacity: must be positive")

	// Stream shape errors
	ErrTooManyChannels       = errors.New("invalid channel count: silence masks support at most 64 channels")
	ErrInvalidMaxBlockFrames = errors.New("invalid max block frames: must be positive")
)
