// Package compiler converts a graph snapshot into an executable Schedule.
//
// # Overview
//
// Compilation runs in three passes:
//
//  1. Validation: duplicate node IDs, duplicate edge IDs, edges referencing
//     missing nodes, and multiple edges into one input port are rejected.
//  2. Topological sort: Kahn's algorithm over the snapshot, with ties broken
//     by node insertion order so repeated compilations of the same graph
//     yield identical schedules.
//  3. Buffer assignment: each connected output port is assigned a slot from
//     a free list. A slot is released once every consumer of its port has
//     been scheduled, so two ports share a slot only when their live ranges
//     are disjoint. Output slots are always allocated before the node's
//     input slots are released, so a node never sees an input buffer alias
//     one of its output buffers.
//
// Unconnected input ports are wired to the canonical silent slot and
// unconnected output ports to the write-only scratch slot. The graph-input
// and graph-output staging slots, and every slot feeding the graph output,
// are pinned for the whole block and never recycled.
//
// # Scheduling Policy
//
// Every node in the snapshot is scheduled, whether or not it is reachable
// from the graph output. Nodes with observable side effects keep running
// even while disconnected from the output.
package compiler
