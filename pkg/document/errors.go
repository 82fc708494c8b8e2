package document

import "errors"

// Sentinel errors for document parsing and building
var (
	// Parse errors
	ErrInvalidDocument = errors.New("graph document failed schema validation")

	// Build errors
	ErrDuplicateNodeID = errors.New("duplicate node ID in document")
	ErrReservedNodeID  = errors.New("node ID is reserved for a graph pseudo-node")
	ErrUnknownNodeType = errors.New("no factory registered for node type")
	ErrUnknownNodeRef  = errors.New("edge references an undeclared node ID")

	// Registry errors
	ErrFactoryAlreadyRegistered = errors.New("factory already registered for node type")
)
