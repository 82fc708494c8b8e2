// Package types provides shared type definitions for the audio graph engine.
// All core data structures used across packages are defined here to avoid
// circular dependencies.
//
// # Overview
//
// The types package defines:
//
//   - Identifiers: NodeID (generational handle), EdgeID, port indices
//   - Channel configuration: ChannelCount, ChannelConfig, AudioNodeInfo
//   - Stream description: StreamInfo, StreamStatus
//   - Silence masks: per-channel "known zero" bitsets
//   - Node contracts: AudioNode (control thread) and AudioNodeProcessor
//     (audio thread), plus ProcessStatus and ProcInfo
//
// # Generational Handles
//
// A NodeID bundles a dense index with a generation counter. The index keys
// directly into the node arenas on both sides of the engine; the
// generation detects stale handles after a slot has been reused, without any
// shared ownership between the control and audio threads.
//
// # Thread Safety
//
// All types in this package are plain values. AudioNodeProcessor
// implementations are owned exclusively by the audio thread once installed;
// any state an AudioNode shares with its processor must be accessed with
// atomic operations, never locks.
package types
