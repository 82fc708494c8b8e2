package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yesoreyeram/osai/pkg/compiler"
	"github.com/yesoreyeram/osai/pkg/config"
	"github.com/yesoreyeram/osai/pkg/graph"
	"github.com/yesoreyeram/osai/pkg/logging"
	"github.com/yesoreyeram/osai/pkg/processor"
	"github.com/yesoreyeram/osai/pkg/schedule"
	"github.com/yesoreyeram/osai/pkg/spsc"
	"github.com/yesoreyeram/osai/pkg/telemetry"
	"github.com/yesoreyeram/osai/pkg/types"
)

// ============================================================================
// Engine Definition
// ============================================================================

// Engine is the control-thread context of the audio graph engine. It owns
// the graph store, compiles schedules, activates node processors, and
// exchanges heap data with the audio-thread processor.
type Engine[C any] struct {
	cfg *config.Config
	log *logging.Logger
	tel *telemetry.Provider

	graphID string
	store   *graph.Store[C]

	activated  bool
	streamInfo types.StreamInfo
	toProc     *spsc.Queue[processor.ContextToProcessorMsg[C]]
	fromProc   *spsc.Queue[processor.ProcessorToContextMsg[C]]

	// activatedNodes tracks nodes whose processors live on the audio
	// thread; pendingRemovals lists activated nodes removed since the last
	// successful Update.
	activatedNodes  map[types.NodeID]bool
	pendingRemovals []types.NodeID
}

// Option configures an Engine.
type Option[C any] func(*Engine[C])

// WithLogger sets the structured logger. Defaults to logging.DefaultConfig.
func WithLogger[C any](log *logging.Logger) Option[C] {
	return func(e *Engine[C]) { e.log = log }
}

// WithTelemetry sets the telemetry provider. Telemetry is optional; without
// a provider nothing is recorded.
func WithTelemetry[C any](tel *telemetry.Provider) Option[C] {
	return func(e *Engine[C]) { e.tel = tel }
}

// ============================================================================
// Constructor Functions
// ============================================================================

// New creates an engine from the given configuration. A nil cfg uses
// config.Default().
func New[C any](cfg *config.Config, opts ...Option[C]) (*Engine[C], error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	e := &Engine[C]{
		cfg:            cfg.Clone(),
		graphID:        uuid.New().String(),
		store:          graph.New[C](cfg.NumGraphInChannels, cfg.NumGraphOutChannels),
		activatedNodes: make(map[types.NodeID]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logging.New(logging.DefaultConfig())
	}
	e.log = e.log.WithGraphID(e.graphID)

	return e, nil
}

// ============================================================================
// Graph Mutation
// ============================================================================

// GraphID returns the engine's unique identifier, carried through logs and
// telemetry.
func (e *Engine[C]) GraphID() string { return e.graphID }

// GraphInNode returns the pseudo-node sourcing the external input channels.
func (e *Engine[C]) GraphInNode() types.NodeID { return e.store.GraphInNode() }

// GraphOutNode returns the pseudo-node sinking the external output channels.
func (e *Engine[C]) GraphOutNode() types.NodeID { return e.store.GraphOutNode() }

// AddNode inserts a node into the graph. The change takes effect on the
// audio thread at the next successful Update.
func (e *Engine[C]) AddNode(node types.AudioNode[C], cfg types.ChannelConfig) (types.NodeID, error) {
	id, err := e.store.AddNode(node, cfg)
	if err != nil {
		return types.NodeID{}, err
	}
	e.log.WithNodeID(id).WithField("node_type", node.Info().DebugName).Debug("node added")
	return id, nil
}

// RemoveNode removes a node and all edges touching it. If the node's
// processor is live on the audio thread, it is evicted and handed back at
// the next successful Update.
func (e *Engine[C]) RemoveNode(id types.NodeID) {
	if !e.store.NodeExists(id) {
		return
	}
	e.store.RemoveNode(id)
	if e.activatedNodes[id] {
		delete(e.activatedNodes, id)
		e.pendingRemovals = append(e.pendingRemovals, id)
	}
	e.log.WithNodeID(id).Debug("node removed")
}

// AddEdge connects src.out[srcPort] to dst.in[dstPort].
func (e *Engine[C]) AddEdge(src types.NodeID, srcPort types.OutPortIdx, dst types.NodeID, dstPort types.InPortIdx) (types.EdgeID, error) {
	return e.store.AddEdge(src, srcPort, dst, dstPort)
}

// RemoveEdge removes an edge. Removing an absent edge is a no-op.
func (e *Engine[C]) RemoveEdge(id types.EdgeID) {
	e.store.RemoveEdge(id)
}

// NumNodes reports the number of live nodes, pseudo-nodes included.
func (e *Engine[C]) NumNodes() int { return e.store.NumNodes() }

// NumEdges reports the number of edges.
func (e *Engine[C]) NumEdges() int { return e.store.NumEdges() }

// ============================================================================
// Compilation
// ============================================================================

// Compile compiles the current graph against the given block size bound and
// returns the schedule without sending it anywhere. Useful for inspection
// and dry runs; Update is the path that feeds the audio thread.
func (e *Engine[C]) Compile(maxBlockFrames int) (*schedule.Schedule, error) {
	return compiler.Compile(e.store.Nodes(), e.store.Edges(), compiler.Options{
		GraphIn:        e.store.GraphInNode(),
		GraphOut:       e.store.GraphOutNode(),
		MaxBlockFrames: maxBlockFrames,
	})
}

// ============================================================================
// Activation & Updates
// ============================================================================

// Activate binds the engine to an audio stream and returns the real-time
// processor for the audio backend to drive. The initial schedule for the
// current graph is compiled and queued before Activate returns.
func (e *Engine[C]) Activate(streamInfo types.StreamInfo, userCx C) (*processor.Processor[C], error) {
	if e.activated {
		return nil, ErrAlreadyActivated
	}
	if streamInfo.SampleRate == 0 || streamInfo.MaxBlockFrames <= 0 {
		return nil, ErrInvalidStreamInfo
	}
	if streamInfo.NumInChannels != e.cfg.NumGraphInChannels ||
		streamInfo.NumOutChannels != e.cfg.NumGraphOutChannels {
		return nil, ErrStreamShapeMismatch
	}

	e.toProc = spsc.New[processor.ContextToProcessorMsg[C]](e.cfg.MessageQueueCapacity)
	e.fromProc = spsc.New[processor.ProcessorToContextMsg[C]](e.cfg.ReturnQueueCapacity)
	proc := processor.New(e.toProc, e.fromProc, e.cfg.NodeCapacity, streamInfo, userCx)

	e.activated = true
	e.streamInfo = streamInfo

	if err := e.Update(context.Background()); err != nil {
		e.activated = false
		e.toProc = nil
		e.fromProc = nil
		clear(e.activatedNodes)
		return nil, fmt.Errorf("activate context: %w", err)
	}

	e.log.WithFields(map[string]interface{}{
		"sample_rate":      streamInfo.SampleRate,
		"max_block_frames": streamInfo.MaxBlockFrames,
	}).Info("context activated")

	return proc, nil
}

// Update compiles the current graph, activates nodes that have no processor
// yet, and sends the bundle to the audio thread. On any failure the last
// installed schedule keeps running.
func (e *Engine[C]) Update(ctx context.Context) error {
	if !e.activated {
		return ErrNotActivated
	}

	e.PollReturned(ctx)

	scheduleID := uuid.New().String()
	log := e.log.WithScheduleID(scheduleID)

	start := time.Now()
	sched, err := e.Compile(e.streamInfo.MaxBlockFrames)
	elapsed := time.Since(start)

	if e.tel != nil {
		numNodes, numSlots := 0, 0
		if sched != nil {
			numNodes = len(sched.Entries())
			numSlots = sched.NumBufferSlots()
		}
		e.tel.RecordCompile(ctx, scheduleID, elapsed, numNodes, numSlots, err == nil)
	}
	if err != nil {
		log.WithError(err).Error("graph compilation failed")
		return err
	}

	newProcessors, err := e.activatePendingNodes(ctx)
	if err != nil {
		log.WithError(err).Error("node activation failed")
		return err
	}

	nodesToRemove := make([]types.NodeID, len(e.pendingRemovals))
	copy(nodesToRemove, e.pendingRemovals)

	heapData := &processor.ScheduleHeapData[C]{
		Schedule:              sched,
		NewNodeProcessors:     newProcessors,
		NodesToRemove:         nodesToRemove,
		RemovedNodeProcessors: make([]processor.NodeProcessorPair[C], 0, len(nodesToRemove)),
	}

	if err := e.toProc.Push(processor.NewScheduleMsg(heapData)); err != nil {
		if errors.Is(err, spsc.ErrFull) {
			log.Error("message queue full, schedule not sent")
			return compiler.ErrMessageChannelFull
		}
		return err
	}

	for _, pair := range newProcessors {
		e.activatedNodes[pair.NodeID] = true
	}
	e.pendingRemovals = e.pendingRemovals[:0]

	if e.tel != nil {
		e.tel.RecordScheduleSend(ctx, scheduleID)
	}
	log.WithFields(map[string]interface{}{
		"entries":      len(sched.Entries()),
		"buffer_slots": sched.NumBufferSlots(),
		"compile_ms":   float64(elapsed.Microseconds()) / 1000.0,
	}).Info("schedule sent")

	return nil
}

// activatePendingNodes produces processors for nodes that do not have one on
// the audio thread yet.
func (e *Engine[C]) activatePendingNodes(ctx context.Context) ([]processor.NodeProcessorPair[C], error) {
	var pairs []processor.NodeProcessorPair[C]

	for _, snap := range e.store.Nodes() {
		if e.activatedNodes[snap.ID] {
			continue
		}
		node, ok := e.store.AudioNode(snap.ID)
		if !ok || node == nil {
			// Pseudo-nodes have no processor.
			continue
		}

		proc, err := node.Activate(e.streamInfo.SampleRate, snap.Config.NumInputs, snap.Config.NumOutputs)
		if e.tel != nil {
			e.tel.RecordNodeActivation(ctx, snap.Info.DebugName, err == nil)
		}
		if err != nil {
			id := snap.ID
			return nil, &types.ActivationFailedError{NodeID: &id, Cause: err}
		}
		pairs = append(pairs, processor.NodeProcessorPair[C]{NodeID: snap.ID, Processor: proc})
	}

	return pairs, nil
}

// ============================================================================
// Returned Heap Data
// ============================================================================

// PollReturned drains the return queue and disposes everything the audio
// thread handed back. Returns the number of messages drained.
func (e *Engine[C]) PollReturned(ctx context.Context) int {
	if e.fromProc == nil {
		return 0
	}

	drained := 0
	for {
		msg, err := e.fromProc.Pop()
		if err != nil {
			return drained
		}
		drained++

		switch msg.Kind {
		case processor.MsgReturnSchedule:
			if e.tel != nil {
				e.tel.RecordScheduleReturn(ctx, len(msg.ScheduleData.RemovedNodeProcessors))
			}
			e.log.WithField("removed_processors", len(msg.ScheduleData.RemovedNodeProcessors)).
				Debug("schedule returned for disposal")

		case processor.MsgDropped:
			e.log.WithField("installed_processors", len(msg.Nodes)).
				Info("processor dropped, heap data reclaimed")
		}
		// Dropping msg here releases the references on the control thread.
	}
}

// ============================================================================
// Shutdown
// ============================================================================

// Deactivate asks the audio thread to stop. The next callback reports
// StatusDropProcessor; the audio backend must then call Close on the
// processor, which routes all remaining heap data back through the return
// queue for PollReturned to reclaim. The engine can be activated again
// afterwards.
func (e *Engine[C]) Deactivate() error {
	if !e.activated {
		return ErrNotActivated
	}

	if err := e.toProc.Push(processor.StopMsg[C]()); err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}

	e.activated = false
	clear(e.activatedNodes)
	e.pendingRemovals = e.pendingRemovals[:0]
	e.log.Info("context deactivated")
	return nil
}

// Activated reports whether a processor is currently bound.
func (e *Engine[C]) Activated() bool { return e.activated }
