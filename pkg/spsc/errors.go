package spsc

import "errors"

// Sentinel errors for queue operations
var (
	// ErrFull is returned by Push when the queue has no free slot.
	ErrFull = errors.New("spsc queue is full")

	// ErrEmpty is returned by Pop when the queue has no pending element.
	ErrEmpty = errors.New("spsc queue is empty")
)
