package graph

import (
	"fmt"

	"github.com/yesoreyeram/osai/pkg/types"
)

// NodeSnapshot is the compiler-facing view of one node.
type NodeSnapshot struct {
	ID     types.NodeID
	Config types.ChannelConfig
	Info   types.AudioNodeInfo
}

type nodeSlot[C any] struct {
	gen      uint32
	occupied bool
	pseudo   bool
	node     types.AudioNode[C] // nil for the graph I/O pseudo-nodes
	config   types.ChannelConfig
	info     types.AudioNodeInfo
}

type inPortKey struct {
	node types.NodeID
	port types.InPortIdx
}

// Store is the mutable audio graph: an arena of nodes plus the edge set.
// It is confined to the control thread.
type Store[C any] struct {
	nodes    []nodeSlot[C]
	freeList []uint32

	edges    []types.Edge // insertion order, for deterministic compilation
	edgeIdx  map[types.EdgeID]int
	nextEdge types.EdgeID

	connectedInPorts map[inPortKey]types.EdgeID

	graphIn  types.NodeID
	graphOut types.NodeID
}

// New creates a store with the two reserved pseudo-nodes for the graph's
// external input and output channels.
func New[C any](numGraphInChannels, numGraphOutChannels types.ChannelCount) *Store[C] {
	s := &Store[C]{
		edgeIdx:          make(map[types.EdgeID]int),
		connectedInPorts: make(map[inPortKey]types.EdgeID),
	}

	s.graphIn = s.insert(nodeSlot[C]{
		occupied: true,
		pseudo:   true,
		config:   types.ChannelConfig{NumOutputs: numGraphInChannels},
		info: types.AudioNodeInfo{
			DebugName:              "graph_in",
			NumMaxSupportedOutputs: numGraphInChannels,
		},
	})
	s.graphOut = s.insert(nodeSlot[C]{
		occupied: true,
		pseudo:   true,
		config:   types.ChannelConfig{NumInputs: numGraphOutChannels},
		info: types.AudioNodeInfo{
			DebugName:             "graph_out",
			NumMaxSupportedInputs: numGraphOutChannels,
		},
	})

	return s
}

// GraphInNode returns the pseudo-node sourcing the graph's external input
// channels.
func (s *Store[C]) GraphInNode() types.NodeID { return s.graphIn }

// GraphOutNode returns the pseudo-node sinking the graph's external output
// channels.
func (s *Store[C]) GraphOutNode() types.NodeID { return s.graphOut }

// AddNode inserts a node with the given channel configuration. It rejects
// configurations outside the node's declared bounds, and configurations the
// node's own validator rejects, with *types.InvalidChannelConfigError.
func (s *Store[C]) AddNode(node types.AudioNode[C], cfg types.ChannelConfig) (types.NodeID, error) {
	info := node.Info()
	if !info.Supports(cfg) {
		return types.NodeID{}, &types.InvalidChannelConfigError{Config: cfg, Info: info}
	}
	if v, ok := node.(types.ChannelConfigValidator); ok {
		if err := v.ValidateChannelConfig(cfg); err != nil {
			return types.NodeID{}, &types.InvalidChannelConfigError{Config: cfg, Info: info, Detail: err}
		}
	}

	id := s.insert(nodeSlot[C]{
		occupied: true,
		node:     node,
		config:   cfg,
		info:     info,
	})
	return id, nil
}

// RemoveNode removes the node and every edge touching it. Removing an absent
// node, or one of the reserved pseudo-nodes, is a no-op.
func (s *Store[C]) RemoveNode(id types.NodeID) {
	slot := s.slot(id)
	if slot == nil || slot.pseudo {
		return
	}

	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.SrcNode == id || e.DstNode == id {
			delete(s.connectedInPorts, inPortKey{node: e.DstNode, port: e.DstPort})
			delete(s.edgeIdx, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	for i, e := range s.edges {
		s.edgeIdx[e.ID] = i
	}

	slot.occupied = false
	slot.node = nil
	s.freeList = append(s.freeList, id.Idx)
}

// AddEdge connects src.out[srcPort] to dst.in[dstPort]. Checks run in order:
// existence, port range, duplicate, input-port occupancy, cycle. A rejected
// edge leaves the graph unchanged.
func (s *Store[C]) AddEdge(src types.NodeID, srcPort types.OutPortIdx, dst types.NodeID, dstPort types.InPortIdx) (types.EdgeID, error) {
	srcSlot := s.slot(src)
	if srcSlot == nil {
		return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: %w", src, srcPort, dst, dstPort, ErrSrcNodeNotFound)
	}
	dstSlot := s.slot(dst)
	if dstSlot == nil {
		return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: %w", src, srcPort, dst, dstPort, ErrDstNodeNotFound)
	}

	if types.ChannelCount(srcPort) >= srcSlot.config.NumOutputs {
		return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: node has %d output ports: %w",
			src, srcPort, dst, dstPort, srcSlot.config.NumOutputs, ErrOutPortOutOfRange)
	}
	if types.ChannelCount(dstPort) >= dstSlot.config.NumInputs {
		return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: node has %d input ports: %w",
			src, srcPort, dst, dstPort, dstSlot.config.NumInputs, ErrInPortOutOfRange)
	}

	for _, e := range s.edges {
		if e.SrcNode == src && e.SrcPort == srcPort && e.DstNode == dst && e.DstPort == dstPort {
			return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: %w", src, srcPort, dst, dstPort, ErrEdgeAlreadyExists)
		}
	}

	if _, occupied := s.connectedInPorts[inPortKey{node: dst, port: dstPort}]; occupied {
		return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: %w", src, srcPort, dst, dstPort, ErrInputPortAlreadyConnected)
	}

	if src == dst || s.reachable(dst, src) {
		return 0, fmt.Errorf("add edge %s.out%d -> %s.in%d: %w", src, srcPort, dst, dstPort, ErrCycleDetected)
	}

	s.nextEdge++
	edge := types.Edge{
		ID:      s.nextEdge,
		SrcNode: src,
		SrcPort: srcPort,
		DstNode: dst,
		DstPort: dstPort,
	}
	s.edgeIdx[edge.ID] = len(s.edges)
	s.edges = append(s.edges, edge)
	s.connectedInPorts[inPortKey{node: dst, port: dstPort}] = edge.ID
	return edge.ID, nil
}

// RemoveEdge removes the edge with the given ID. Removing an absent edge is
// a no-op.
func (s *Store[C]) RemoveEdge(id types.EdgeID) {
	i, ok := s.edgeIdx[id]
	if !ok {
		return
	}
	e := s.edges[i]
	delete(s.connectedInPorts, inPortKey{node: e.DstNode, port: e.DstPort})
	delete(s.edgeIdx, id)
	s.edges = append(s.edges[:i], s.edges[i+1:]...)
	for j := i; j < len(s.edges); j++ {
		s.edgeIdx[s.edges[j].ID] = j
	}
}

// NodeExists reports whether the handle refers to a live node.
func (s *Store[C]) NodeExists(id types.NodeID) bool {
	return s.slot(id) != nil
}

// Node returns the snapshot for one node.
func (s *Store[C]) Node(id types.NodeID) (NodeSnapshot, bool) {
	slot := s.slot(id)
	if slot == nil {
		return NodeSnapshot{}, false
	}
	return NodeSnapshot{ID: id, Config: slot.config, Info: slot.info}, true
}

// AudioNode returns the AudioNode factory stored for id. Pseudo-nodes return
// (nil, true).
func (s *Store[C]) AudioNode(id types.NodeID) (types.AudioNode[C], bool) {
	slot := s.slot(id)
	if slot == nil {
		return nil, false
	}
	return slot.node, true
}

// Nodes returns a snapshot of all live nodes, pseudo-nodes included, in
// arena index order. Arena index order is insertion order until slots are
// recycled, which keeps compiled schedules deterministic.
func (s *Store[C]) Nodes() []NodeSnapshot {
	out := make([]NodeSnapshot, 0, len(s.nodes))
	for idx := range s.nodes {
		slot := &s.nodes[idx]
		if !slot.occupied {
			continue
		}
		out = append(out, NodeSnapshot{
			ID:     types.NodeID{Idx: uint32(idx), Gen: slot.gen},
			Config: slot.config,
			Info:   slot.info,
		})
	}
	return out
}

// Edges returns a snapshot of all edges in insertion order.
func (s *Store[C]) Edges() []types.Edge {
	out := make([]types.Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// NumNodes reports the number of live nodes, pseudo-nodes included.
func (s *Store[C]) NumNodes() int {
	n := 0
	for i := range s.nodes {
		if s.nodes[i].occupied {
			n++
		}
	}
	return n
}

// NumEdges reports the number of edges.
func (s *Store[C]) NumEdges() int { return len(s.edges) }

func (s *Store[C]) insert(slot nodeSlot[C]) types.NodeID {
	if n := len(s.freeList); n > 0 {
		idx := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		slot.gen = s.nodes[idx].gen + 1
		s.nodes[idx] = slot
		return types.NodeID{Idx: idx, Gen: slot.gen}
	}
	s.nodes = append(s.nodes, slot)
	return types.NodeID{Idx: uint32(len(s.nodes) - 1), Gen: 0}
}

func (s *Store[C]) slot(id types.NodeID) *nodeSlot[C] {
	if int(id.Idx) >= len(s.nodes) {
		return nil
	}
	slot := &s.nodes[id.Idx]
	if !slot.occupied || slot.gen != id.Gen {
		return nil
	}
	return slot
}

// reachable reports whether target can be reached from start by following
// edges forward. Used for the pre-commit cycle check.
func (s *Store[C]) reachable(start, target types.NodeID) bool {
	visited := make(map[types.NodeID]bool, len(s.nodes))
	stack := make([]types.NodeID, 0, len(s.nodes))
	stack = append(stack, start)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, e := range s.edges {
			if e.SrcNode == n && !visited[e.DstNode] {
				stack = append(stack, e.DstNode)
			}
		}
	}
	return false
}
