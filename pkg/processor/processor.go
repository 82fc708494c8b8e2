package processor

import (
	"github.com/yesoreyeram/osai/pkg/dsp"
	"github.com/yesoreyeram/osai/pkg/spsc"
	"github.com/yesoreyeram/osai/pkg/types"
)

// Status is the result of one audio callback.
type Status uint8

const (
	// StatusOK means the processor is still live.
	StatusOK Status = iota
	// StatusDropProcessor means the caller must stop invoking the
	// processor and call Close.
	StatusDropProcessor
)

type nodeSlot[C any] struct {
	gen      uint32
	occupied bool
	proc     types.AudioNodeProcessor[C]
}

// Processor executes the active schedule on the audio callback thread.
type Processor[C any] struct {
	nodes        []nodeSlot[C]
	scheduleData *ScheduleHeapData[C]
	userCx       C

	fromGraph *spsc.Queue[ContextToProcessorMsg[C]]
	toGraph   *spsc.Queue[ProcessorToContextMsg[C]]

	running    bool
	closed     bool
	streamInfo types.StreamInfo

	// Per-block dispatch state. The three closures below are bound once at
	// construction so the block loop allocates nothing.
	blockFrames    int
	streamTimeSecs float64
	streamStatus   types.StreamStatus
	curInput       []float32
	curOutput      []float32
	curNumIn       int
	curNumOut      int
	invokeFn       func(types.NodeID, types.SilenceMask, types.SilenceMask, [][]float32, [][]float32) types.ProcessStatus
	fillFn         func([][]float32) types.SilenceMask
	sinkFn         func([][]float32, types.SilenceMask)

	dropScratch []NodeProcessorPair[C]
}

// New creates a processor bound to the given stream. The node arena is sized
// 2*nodeCapacity; schedule installation assumes that capacity is never
// exceeded.
func New[C any](fromGraph *spsc.Queue[ContextToProcessorMsg[C]], toGraph *spsc.Queue[ProcessorToContextMsg[C]], nodeCapacity int, streamInfo types.StreamInfo, userCx C) *Processor[C] {
	p := &Processor[C]{
		nodes:       make([]nodeSlot[C], nodeCapacity*2),
		userCx:      userCx,
		fromGraph:   fromGraph,
		toGraph:     toGraph,
		running:     true,
		streamInfo:  streamInfo,
		dropScratch: make([]NodeProcessorPair[C], 0, nodeCapacity*2),
	}
	p.invokeFn = p.dispatch
	p.fillFn = p.fillGraphInputs
	p.sinkFn = p.sinkGraphOutputs
	return p
}

// StreamInfo returns the immutable stream description the processor was
// bound to.
func (p *Processor[C]) StreamInfo() types.StreamInfo { return p.streamInfo }

// ProcessInterleaved processes one hardware callback of interleaved PCM.
// input must hold frames*numInChannels samples and output
// frames*numOutChannels samples. Returns StatusDropProcessor once a Stop
// message has been observed; the caller must then stop invoking the
// processor and call Close.
func (p *Processor[C]) ProcessInterleaved(input []float32, output []float32, numInChannels, numOutChannels, frames int, streamTimeSecs float64, streamStatus types.StreamStatus) Status {
	p.pollMessages()

	if !p.running {
		zeroSamples(output)
		return StatusDropProcessor
	}

	if p.scheduleData == nil || frames == 0 {
		zeroSamples(output)
		return StatusOK
	}

	if len(input) != frames*numInChannels {
		panic("processor: input length does not match frames*numInChannels")
	}
	if len(output) != frames*numOutChannels {
		panic("processor: output length does not match frames*numOutChannels")
	}

	p.streamTimeSecs = streamTimeSecs
	p.streamStatus = streamStatus
	p.curNumIn = numInChannels
	p.curNumOut = numOutChannels

	framesProcessed := 0
	for framesProcessed < frames {
		blockFrames := frames - framesProcessed
		if blockFrames > p.streamInfo.MaxBlockFrames {
			blockFrames = p.streamInfo.MaxBlockFrames
		}

		p.curInput = input[framesProcessed*numInChannels : (framesProcessed+blockFrames)*numInChannels]
		p.scheduleData.Schedule.PrepareGraphInputs(blockFrames, numInChannels, p.fillFn)

		p.processBlock(blockFrames)

		p.curOutput = output[framesProcessed*numOutChannels : (framesProcessed+blockFrames)*numOutChannels]
		p.scheduleData.Schedule.ReadGraphOutputs(blockFrames, numOutChannels, p.sinkFn)

		if !p.running {
			zeroSamples(output[framesProcessed*numOutChannels:])
			break
		}

		framesProcessed += blockFrames
	}

	if p.running {
		return StatusOK
	}
	return StatusDropProcessor
}

// processBlock drains pending messages, then drives the schedule for one
// sub-block. Draining here picks up a Stop promptly and lets a NewSchedule
// take effect at the next sub-block boundary.
func (p *Processor[C]) processBlock(blockFrames int) {
	p.pollMessages()

	if !p.running || p.scheduleData == nil {
		return
	}

	p.blockFrames = blockFrames
	p.scheduleData.Schedule.Process(blockFrames, p.invokeFn)
}

func (p *Processor[C]) dispatch(nodeID types.NodeID, inSilenceMask, outSilenceMask types.SilenceMask, inputs, outputs [][]float32) types.ProcessStatus {
	slot := &p.nodes[nodeID.Idx]
	if !slot.occupied || slot.gen != nodeID.Gen {
		panic("processor: schedule references a node with no installed processor")
	}

	return slot.proc.Process(inputs, outputs, types.ProcInfo[C]{
		Frames:         p.blockFrames,
		InSilenceMask:  inSilenceMask,
		OutSilenceMask: outSilenceMask,
		StreamTimeSecs: p.streamTimeSecs,
		StreamStatus:   p.streamStatus,
		Cx:             &p.userCx,
	})
}

func (p *Processor[C]) fillGraphInputs(channels [][]float32) types.SilenceMask {
	return dsp.Deinterleave(channels, p.curInput, p.curNumIn, true)
}

func (p *Processor[C]) sinkGraphOutputs(channels [][]float32, silenceMask types.SilenceMask) {
	dsp.Interleave(channels, p.curOutput, p.curNumOut, silenceMask)
}

func (p *Processor[C]) pollMessages() {
	for {
		msg, err := p.fromGraph.Pop()
		if err != nil {
			return
		}

		switch msg.kind {
		case msgNewSchedule:
			p.installSchedule(msg.scheduleData)
		case msgStop:
			p.running = false
		}
	}
}

// installSchedule adopts newly compiled schedule data and returns the
// replaced schedule, with the processors it evicts, to the control thread.
func (p *Processor[C]) installSchedule(newData *ScheduleHeapData[C]) {
	if newData.Schedule.MaxBlockFrames() != p.streamInfo.MaxBlockFrames {
		panic("processor: schedule compiled for a different max block frames")
	}

	if oldData := p.scheduleData; oldData != nil {
		// The new bundle carries the preallocated eviction scratch; hand it
		// to the outgoing bundle before filling it.
		oldData.RemovedNodeProcessors, newData.RemovedNodeProcessors =
			newData.RemovedNodeProcessors, oldData.RemovedNodeProcessors

		for _, nodeID := range newData.NodesToRemove {
			if proc, ok := p.removeNode(nodeID); ok {
				oldData.RemovedNodeProcessors = append(oldData.RemovedNodeProcessors,
					NodeProcessorPair[C]{NodeID: nodeID, Processor: proc})
			}
		}

		if err := p.toGraph.Push(ProcessorToContextMsg[C]{
			Kind:         MsgReturnSchedule,
			ScheduleData: oldData,
		}); err != nil {
			// The control side sizes the return queue to bound outstanding
			// messages; overflow here would leak the old schedule.
			panic("processor: return queue full on schedule swap")
		}
	}

	for _, pair := range newData.NewNodeProcessors {
		p.installNode(pair)
	}
	newData.NewNodeProcessors = nil

	p.scheduleData = newData
}

func (p *Processor[C]) installNode(pair NodeProcessorPair[C]) {
	if int(pair.NodeID.Idx) >= len(p.nodes) {
		panic("processor: node capacity exceeded")
	}
	slot := &p.nodes[pair.NodeID.Idx]
	if slot.occupied {
		panic("processor: node processor slot collision")
	}
	slot.gen = pair.NodeID.Gen
	slot.occupied = true
	slot.proc = pair.Processor
}

func (p *Processor[C]) removeNode(nodeID types.NodeID) (types.AudioNodeProcessor[C], bool) {
	if int(nodeID.Idx) >= len(p.nodes) {
		return nil, false
	}
	slot := &p.nodes[nodeID.Idx]
	if !slot.occupied || slot.gen != nodeID.Gen {
		return nil, false
	}
	proc := slot.proc
	slot.occupied = false
	slot.proc = nil
	return proc, true
}

// Close relinquishes everything the processor owns through the outbound
// queue so no heap object is released on the audio thread. The push is
// best-effort: at shutdown the consumer side may already be gone.
func (p *Processor[C]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.running = false

	dropped := p.dropScratch
	for idx := range p.nodes {
		slot := &p.nodes[idx]
		if !slot.occupied {
			continue
		}
		dropped = append(dropped, NodeProcessorPair[C]{
			NodeID:    types.NodeID{Idx: uint32(idx), Gen: slot.gen},
			Processor: slot.proc,
		})
		slot.occupied = false
		slot.proc = nil
	}

	_ = p.toGraph.Push(ProcessorToContextMsg[C]{
		Kind:         MsgDropped,
		ScheduleData: p.scheduleData,
		Nodes:        dropped,
		UserCx:       &p.userCx,
	})
	p.scheduleData = nil
}

func zeroSamples(buf []float32) {
	for i := range buf {
		buf[i] = 0.0
	}
}
