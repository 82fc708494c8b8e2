// Package dsp provides the sample-level helpers the audio graph engine is
// built on: interleaving and deinterleaving of hardware PCM buffers with
// silence detection, decibel/linear gain conversion, and buffer clearing.
//
// # Real-Time Safety
//
// Every function in this package operates on caller-provided buffers,
// performs no allocation, and is safe to call from the audio thread.
//
// # Silence Detection
//
// Deinterleave optionally scans each deinterleaved channel and reports a
// types.SilenceMask so downstream nodes can skip arithmetic on channels that
// contain only zeros. Interleave accepts a mask and writes zeros for silent
// channels without reading their buffers.
package dsp
