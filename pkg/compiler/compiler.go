package compiler

import (
	"fmt"

	"github.com/yesoreyeram/osai/pkg/graph"
	"github.com/yesoreyeram/osai/pkg/schedule"
	"github.com/yesoreyeram/osai/pkg/types"
)

// Options identifies the graph's pseudo-nodes and the block size the
// schedule is compiled against.
type Options struct {
	GraphIn        types.NodeID
	GraphOut       types.NodeID
	MaxBlockFrames int
}

type outPortKey struct {
	node types.NodeID
	port types.OutPortIdx
}

type inPortKey struct {
	node types.NodeID
	port types.InPortIdx
}

// Compile validates the snapshot, orders it topologically, assigns buffer
// slots, and emits a Schedule.
func Compile(nodes []graph.NodeSnapshot, edges []types.Edge, opts Options) (*schedule.Schedule, error) {
	byID := make(map[types.NodeID]graph.NodeSnapshot, len(nodes))
	nodeOrder := make(map[types.NodeID]int, len(nodes))
	for i, n := range nodes {
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("compile: %s: %w", n.ID, ErrNodeIDNotUnique)
		}
		byID[n.ID] = n
		nodeOrder[n.ID] = i
	}

	edgeIDs := make(map[types.EdgeID]bool, len(edges))
	inEdges := make(map[inPortKey]types.Edge, len(edges))
	consumers := make(map[outPortKey]int, len(edges))
	for _, e := range edges {
		if edgeIDs[e.ID] {
			return nil, fmt.Errorf("compile: edge %d: %w", e.ID, ErrEdgeIDNotUnique)
		}
		edgeIDs[e.ID] = true
		if _, ok := byID[e.SrcNode]; !ok {
			return nil, fmt.Errorf("compile: edge %d source %s: %w", e.ID, e.SrcNode, ErrNodeOnEdgeNotFound)
		}
		if _, ok := byID[e.DstNode]; !ok {
			return nil, fmt.Errorf("compile: edge %d destination %s: %w", e.ID, e.DstNode, ErrNodeOnEdgeNotFound)
		}
		in := inPortKey{node: e.DstNode, port: e.DstPort}
		if _, occupied := inEdges[in]; occupied {
			return nil, fmt.Errorf("compile: %s.in%d: %w", e.DstNode, e.DstPort, ErrManyToOne)
		}
		inEdges[in] = e
		consumers[outPortKey{node: e.SrcNode, port: e.SrcPort}]++
	}

	order, err := topoSort(nodes, edges, nodeOrder)
	if err != nil {
		return nil, err
	}

	return assignSlots(order, byID, inEdges, consumers, opts)
}

// topoSort produces a topological order over the snapshot using Kahn's
// algorithm. The queue is seeded and drained in node insertion order so the
// result is deterministic.
func topoSort(nodes []graph.NodeSnapshot, edges []types.Edge, nodeOrder map[types.NodeID]int) ([]graph.NodeSnapshot, error) {
	numNodes := len(nodes)
	inDegree := make([]int, numNodes)
	adjacency := make([][]int, numNodes)

	for _, e := range edges {
		src := nodeOrder[e.SrcNode]
		dst := nodeOrder[e.DstNode]
		adjacency[src] = append(adjacency[src], dst)
		inDegree[dst]++
	}

	// Ring-buffer queue, preallocated for all nodes.
	queue := make([]int, numNodes)
	queueStart, queueEnd := 0, 0
	for i := 0; i < numNodes; i++ {
		if inDegree[i] == 0 {
			queue[queueEnd] = i
			queueEnd++
		}
	}

	order := make([]graph.NodeSnapshot, 0, numNodes)
	for queueStart < queueEnd {
		current := queue[queueStart]
		queueStart++
		order = append(order, nodes[current])

		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue[queueEnd] = neighbor
				queueEnd++
			}
		}
	}

	if len(order) != numNodes {
		return nil, fmt.Errorf("compile: %w", ErrCycleDetected)
	}
	return order, nil
}

// slotAllocator hands out buffer slots from a free list so disjoint live
// ranges share memory. Pinned slots are never recycled.
type slotAllocator struct {
	next     int
	freeList []int
	refCount []int
	pinned   []bool
}

func newSlotAllocator() *slotAllocator {
	a := &slotAllocator{next: schedule.NumReservedSlots}
	a.refCount = make([]int, schedule.NumReservedSlots)
	a.pinned = make([]bool, schedule.NumReservedSlots)
	return a
}

func (a *slotAllocator) alloc(numConsumers int) int {
	var slot int
	if n := len(a.freeList); n > 0 {
		slot = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
	} else {
		slot = a.next
		a.next++
		a.refCount = append(a.refCount, 0)
		a.pinned = append(a.pinned, false)
	}
	a.refCount[slot] = numConsumers
	return slot
}

func (a *slotAllocator) release(slot int) {
	if slot < schedule.NumReservedSlots {
		return
	}
	a.refCount[slot]--
	if a.refCount[slot] <= 0 && !a.pinned[slot] {
		a.freeList = append(a.freeList, slot)
	}
}

func (a *slotAllocator) pin(slot int) {
	if slot >= schedule.NumReservedSlots {
		a.pinned[slot] = true
	}
}

// assignSlots walks the topological order, binding every port to a buffer
// slot and emitting the scheduled entries.
func assignSlots(order []graph.NodeSnapshot, byID map[types.NodeID]graph.NodeSnapshot, inEdges map[inPortKey]types.Edge, consumers map[outPortKey]int, opts Options) (*schedule.Schedule, error) {
	alloc := newSlotAllocator()
	portSlot := make(map[outPortKey]int, len(consumers))

	graphInCfg := byID[opts.GraphIn].Config
	graphOutCfg := byID[opts.GraphOut].Config
	graphInSlots := make([]int, graphInCfg.NumOutputs)
	graphOutSlots := make([]int, graphOutCfg.NumInputs)

	entries := make([]schedule.Entry, 0, len(order))

	for _, n := range order {
		switch n.ID {
		case opts.GraphIn:
			// Staging slots for the external input channels. Pinned: the
			// deinterleave stage writes them before the first entry runs.
			for ch := types.ChannelCount(0); ch < graphInCfg.NumOutputs; ch++ {
				key := outPortKey{node: n.ID, port: types.OutPortIdx(ch)}
				slot := alloc.alloc(consumers[key])
				alloc.pin(slot)
				portSlot[key] = slot
				graphInSlots[ch] = slot
			}

		case opts.GraphOut:
			// The external output channels read their producer slots after
			// every entry has run; pin them so no later entry recycles one.
			for ch := types.ChannelCount(0); ch < graphOutCfg.NumInputs; ch++ {
				edge, ok := inEdges[inPortKey{node: n.ID, port: types.InPortIdx(ch)}]
				if !ok {
					graphOutSlots[ch] = schedule.SilentSlot
					continue
				}
				slot := portSlot[outPortKey{node: edge.SrcNode, port: edge.SrcPort}]
				alloc.pin(slot)
				alloc.release(slot)
				graphOutSlots[ch] = slot
			}

		default:
			entry := schedule.Entry{
				NodeID:   n.ID,
				InSlots:  make([]int, n.Config.NumInputs),
				OutSlots: make([]int, n.Config.NumOutputs),
			}

			for port := types.ChannelCount(0); port < n.Config.NumInputs; port++ {
				edge, ok := inEdges[inPortKey{node: n.ID, port: types.InPortIdx(port)}]
				if !ok {
					entry.InSlots[port] = schedule.SilentSlot
					continue
				}
				entry.InSlots[port] = portSlot[outPortKey{node: edge.SrcNode, port: edge.SrcPort}]
			}

			// Outputs allocate before inputs release so a node's input
			// buffer never aliases one of its output buffers.
			for port := types.ChannelCount(0); port < n.Config.NumOutputs; port++ {
				key := outPortKey{node: n.ID, port: types.OutPortIdx(port)}
				numConsumers := consumers[key]
				if numConsumers == 0 {
					entry.OutSlots[port] = schedule.ScratchSlot
					continue
				}
				slot := alloc.alloc(numConsumers)
				portSlot[key] = slot
				entry.OutSlots[port] = slot
			}

			for port := types.ChannelCount(0); port < n.Config.NumInputs; port++ {
				if _, ok := inEdges[inPortKey{node: n.ID, port: types.InPortIdx(port)}]; ok {
					alloc.release(entry.InSlots[port])
				}
			}

			entries = append(entries, entry)
		}
	}

	return schedule.New(entries, alloc.next, graphInSlots, graphOutSlots, opts.MaxBlockFrames), nil
}
