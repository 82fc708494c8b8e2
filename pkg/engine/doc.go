// Package engine provides the control-thread context of the audio graph
// engine: graph mutation, schedule compilation, node activation, and the
// exchange of heap data with the audio-thread processor.
//
// # Overview
//
// The Engine owns the graph store and the two SPSC queues. A typical
// session:
//
//	eng, err := engine.New[MyCx](config.Default())
//	beep := nodes.NewBeep[MyCx](440, -6, false)
//	id, err := eng.AddNode(beep, types.ChannelConfig{NumOutputs: 1})
//	_, err = eng.AddEdge(id, 0, eng.GraphOutNode(), 0)
//
//	proc, err := eng.Activate(streamInfo, MyCx{})
//	// hand proc to the audio backend's callback
//
//	err = eng.Update(ctx) // compile + send the current graph
//
// Update compiles the graph against the active stream, activates nodes that
// have no processor yet, and sends the bundle to the audio thread. A failed
// compilation or a full message queue leaves the last installed schedule
// running.
//
// # Disposal
//
// Every heap object the audio thread finishes with comes back through the
// return queue. Update and PollReturned drain it; dropping the references on
// the control thread is what finally releases them. The audio thread never
// releases the last reference to anything.
//
// # Threading
//
// All Engine methods belong to the control thread. The only value that
// crosses to the audio thread is the Processor returned by Activate.
package engine
