// Package schedule provides the immutable execution plan produced by the
// compiler and driven by the audio-thread processor.
//
// # Overview
//
// A Schedule is an ordered list of node invocations. Each entry binds the
// node's input and output ports to buffer slots — indices into a pool of
// scratch buffers sized at compile time. Two reserved slots exist: slot 0 is
// the canonical silent buffer (read-only, always zero) wired to unconnected
// input ports, and slot 1 is a scratch buffer wired to unconnected output
// ports and never read.
//
// # Block Execution
//
// One block runs as three phases, all on the audio thread:
//
//  1. PrepareGraphInputs stages deinterleaved hardware input into the
//     dedicated graph-input slots and records their silence mask.
//  2. Process walks the entries in order, invoking the caller's dispatch
//     function with per-entry buffer views and silence masks, and folds each
//     node's ProcessStatus back into per-slot silence state.
//  3. ReadGraphOutputs hands the graph-output slots to the caller for
//     interleaving into the hardware output buffer.
//
// # Silence Propagation
//
// Silence is tracked per slot. A node returning OutputsNotModified marks its
// output slots silent without touching memory; the stale contents are zeroed
// lazily, the first time a consumer reads the slot. Bypass copies inputs to
// outputs position by position, with missing inputs treated as silent and
// extra outputs marked silent.
//
// # Real-Time Safety
//
// All pool buffers and per-entry view slices are allocated by New. Prepare,
// Process, and ReadGraphOutputs allocate nothing.
package schedule
