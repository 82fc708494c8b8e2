// Package logging provides structured logging with context propagation for
// the audio graph engine. It uses Go's built-in slog package for
// high-performance structured logging.
//
// # Overview
//
// The logging package wraps slog with engine-specific field helpers so
// control-thread events carry consistent identifiers:
//
//   - graph_id: the engine instance
//   - schedule_id: one compiled schedule
//   - node_id: one node in the graph
//
// # Log Levels
//
// Standard levels are supported: DEBUG, INFO, WARN, ERROR.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	})
//
//	logger.WithGraphID(graphID).Info("schedule installed")
//
// # Thread Safety
//
// Loggers are immutable and safe for concurrent use on the control side.
// The audio thread never logs; anything it needs reported travels back
// through the message queues first.
package logging
