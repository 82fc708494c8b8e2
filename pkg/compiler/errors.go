package compiler

import "errors"

// Sentinel errors for graph compilation. Compile wraps these with the
// offending IDs; match with errors.Is.
var (
	// ErrCycleDetected is returned when the snapshot contains a directed
	// cycle.
	ErrCycleDetected = errors.New("cycle detected in graph")

	// ErrNodeOnEdgeNotFound is returned when an edge references a node
	// missing from the snapshot.
	ErrNodeOnEdgeNotFound = errors.New("edge references a node not in graph")

	// ErrNodeIDNotUnique is returned when the snapshot contains two nodes
	// with the same ID.
	ErrNodeIDNotUnique = errors.New("node ID is not unique")

	// ErrEdgeIDNotUnique is returned when the snapshot contains two edges
	// with the same ID.
	ErrEdgeIDNotUnique = errors.New("edge ID is not unique")

	// ErrManyToOne is returned when two edges target the same input port.
	ErrManyToOne = errors.New("input port has more than one connection")

	// ErrMessageChannelFull is returned when a freshly compiled schedule
	// cannot be delivered because the processor message queue is full.
	ErrMessageChannelFull = errors.New("message channel to processor is full")
)
