package graph

import "errors"

// Sentinel errors for edge admission. AddEdge wraps these with the offending
// endpoints; match with errors.Is.
var (
	// Existence errors
	ErrSrcNodeNotFound = errors.New("source node not found in graph")
	ErrDstNodeNotFound = errors.New("destination node not found in graph")

	// Port range errors
	ErrInPortOutOfRange  = errors.New("input port index out of range")
	ErrOutPortOutOfRange = errors.New("output port index out of range")

	// Connection errors
	ErrEdgeAlreadyExists         = errors.New("edge already exists in graph")
	ErrInputPortAlreadyConnected = errors.New("input port is already connected")

	// Cycle detection errors
	ErrCycleDetected = errors.New("edge would create a cycle in graph")
)
