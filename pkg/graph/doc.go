// Package graph provides the mutable audio graph store: a cycle-free
// multigraph of nodes with port-level connections.
//
// # Overview
//
// The store maintains:
//
//   - A generational arena of nodes, each carrying its AudioNode factory and
//     channel configuration
//   - Two reserved pseudo-nodes representing the graph's external input
//     (a source) and external output (a sink)
//   - The edge set, indexed for duplicate and input-port-occupancy checks
//
// # Invariants
//
// After every mutation the following hold:
//
//   - Every edge endpoint references an existing node
//   - Every port index is within its node's declared range
//   - No two edges share the same destination input port
//   - No two edges share all four endpoints
//   - The induced multigraph has no directed cycle
//
// Edge admission checks run in a fixed order: existence, port range,
// duplicate, input-port occupancy, cycle. The cycle check is a DFS from the
// destination node that must not reach the source; it runs before the edge
// is committed, so a rejected edge leaves the graph untouched.
//
// # Thread Safety
//
// The store is confined to the control thread. It is not safe for concurrent
// use; the audio thread never sees it.
package graph
