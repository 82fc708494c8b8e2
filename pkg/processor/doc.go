// Package processor provides the audio-thread half of the engine: the
// executor that owns the installed node processors, drives the active
// schedule from the hardware callback, and exchanges heap data with the
// control thread over lock-free queues.
//
// # Real-Time Contract
//
// ProcessInterleaved runs on the audio callback thread. After construction
// it performs no heap allocation, no locking, and no blocking system call.
// Every buffer it touches was preallocated by the schedule compiler, and the
// dispatch and staging closures are bound once at construction.
//
// # Heap Hand-Back
//
// The audio thread never releases the last reference to a heap object.
// Replaced schedules travel back to the control thread in a ReturnSchedule
// message, carrying the processors evicted by the swap. When the processor
// itself shuts down, Close moves the whole installed-processor set, the
// active schedule, and the user context into a single Dropped message. A
// full return queue on ReturnSchedule is an invariant violation and panics;
// on Dropped at shutdown the push is best-effort.
//
// # Message Ordering
//
// Messages are drained at sub-block boundaries. A NewSchedule takes effect
// at the next sub-block; a Stop causes the remainder of the output buffer to
// be zero-filled and the callback to report StatusDropProcessor.
package processor
