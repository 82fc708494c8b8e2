// Package nodes provides the basic audio node library: a test tone
// generator, a pass-through, a gain stage, and a mixer.
//
// # Overview
//
// Each node comes in two halves, matching the engine's node contract:
//
//   - The AudioNode value lives on the control thread, validates channel
//     configurations, and produces the processor on activation.
//   - The processor runs on the audio thread and owns all per-block state.
//
// Nodes that accept live parameter changes (Beep's enable flag, Volume's
// gain) share a single atomic cell between the two halves. Only the latest
// value matters, so plain atomic loads and stores are sufficient; no locks
// are ever taken on the audio thread.
package nodes
