package schedule

import (
	"github.com/yesoreyeram/osai/pkg/types"
)

// Reserved buffer slots present in every schedule.
const (
	// SilentSlot is the canonical read-only zero buffer wired to
	// unconnected input ports.
	SilentSlot = 0
	// ScratchSlot receives writes to unconnected output ports and is
	// never read.
	ScratchSlot = 1
	// NumReservedSlots is the number of slots reserved before the first
	// assignable slot.
	NumReservedSlots = 2
)

// Entry is one scheduled node invocation with its port-to-slot bindings.
type Entry struct {
	NodeID   types.NodeID
	InSlots  []int
	OutSlots []int
}

type entryState struct {
	Entry
	inputs  [][]float32
	outputs [][]float32
}

// Schedule is an immutable execution plan. All memory it touches during a
// block is preallocated by New.
type Schedule struct {
	entries []entryState

	pool       [][]float32
	slotSilent []bool
	slotDirty  []bool // silent with stale contents; zeroed on first read

	graphInSlots  []int
	graphOutSlots []int

	inViews  [][]float32
	outViews [][]float32

	maxBlockFrames int
}

// New builds a schedule over numSlots buffer slots of maxBlockFrames frames
// each. numSlots includes the two reserved slots. graphInSlots and
// graphOutSlots are the dedicated staging slots for the graph's external
// channels.
func New(entries []Entry, numSlots int, graphInSlots, graphOutSlots []int, maxBlockFrames int) *Schedule {
	if numSlots < NumReservedSlots {
		numSlots = NumReservedSlots
	}

	s := &Schedule{
		entries:        make([]entryState, len(entries)),
		pool:           make([][]float32, numSlots),
		slotSilent:     make([]bool, numSlots),
		slotDirty:      make([]bool, numSlots),
		graphInSlots:   graphInSlots,
		graphOutSlots:  graphOutSlots,
		inViews:        make([][]float32, len(graphInSlots)),
		outViews:       make([][]float32, len(graphOutSlots)),
		maxBlockFrames: maxBlockFrames,
	}

	for i := range s.pool {
		s.pool[i] = make([]float32, maxBlockFrames)
	}
	for i, e := range entries {
		s.entries[i] = entryState{
			Entry:   e,
			inputs:  make([][]float32, len(e.InSlots)),
			outputs: make([][]float32, len(e.OutSlots)),
		}
	}

	s.resetSlotState()
	return s
}

// MaxBlockFrames reports the block size the schedule was compiled against.
// Callers must never pass a larger block to Prepare/Process/Read.
func (s *Schedule) MaxBlockFrames() int { return s.maxBlockFrames }

// NumBufferSlots reports the pool size, reserved slots included.
func (s *Schedule) NumBufferSlots() int { return len(s.pool) }

// Entries returns a copy of the scheduled entries for inspection.
func (s *Schedule) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i := range s.entries {
		out[i] = s.entries[i].Entry
	}
	return out
}

// GraphInSlots returns the dedicated graph-input staging slots.
func (s *Schedule) GraphInSlots() []int { return s.graphInSlots }

// GraphOutSlots returns the dedicated graph-output staging slots.
func (s *Schedule) GraphOutSlots() []int { return s.graphOutSlots }

// PrepareGraphInputs begins a block. It hands fill one mutable view per
// graph-input channel, restricted to blockFrames, and records the silence
// mask fill returns. numInChannels is the number of hardware channels fill
// will actually populate; views beyond it must be zero-filled by fill (the
// dsp deinterleave helper does both).
func (s *Schedule) PrepareGraphInputs(blockFrames, numInChannels int, fill func(channels [][]float32) types.SilenceMask) {
	s.checkBlockFrames(blockFrames)
	s.resetSlotState()

	for i, slot := range s.graphInSlots {
		s.inViews[i] = s.pool[slot][:blockFrames]
	}

	mask := fill(s.inViews)

	for i, slot := range s.graphInSlots {
		s.slotSilent[slot] = mask.IsChannelSilent(i)
		s.slotDirty[slot] = false
	}
}

// Process executes every scheduled entry in order. invoke dispatches one
// node call; it receives the entry's input and output buffer views
// restricted to blockFrames, plus the input silence mask and a mask of
// output channels whose buffers are already zeroed.
func (s *Schedule) Process(blockFrames int, invoke func(nodeID types.NodeID, inSilenceMask, outSilenceMask types.SilenceMask, inputs, outputs [][]float32) types.ProcessStatus) {
	s.checkBlockFrames(blockFrames)

	for ei := range s.entries {
		e := &s.entries[ei]

		inMask := types.SilenceMaskNone
		for i, slot := range e.InSlots {
			if s.slotSilent[slot] {
				inMask = inMask.WithChannelSilent(i, true)
				if s.slotDirty[slot] {
					clearSlot(s.pool[slot], blockFrames)
					s.slotDirty[slot] = false
				}
			}
			e.inputs[i] = s.pool[slot][:blockFrames]
		}

		outMask := types.SilenceMaskNone
		for i, slot := range e.OutSlots {
			if s.slotSilent[slot] && !s.slotDirty[slot] {
				outMask = outMask.WithChannelSilent(i, true)
			}
			e.outputs[i] = s.pool[slot][:blockFrames]
		}

		status := invoke(e.NodeID, inMask, outMask, e.inputs, e.outputs)

		switch status.Kind {
		case types.ProcessOutputsModified:
			for i, slot := range e.OutSlots {
				if slot == ScratchSlot {
					continue
				}
				s.slotSilent[slot] = status.OutSilenceMask.IsChannelSilent(i)
				s.slotDirty[slot] = false
			}

		case types.ProcessOutputsNotModified:
			for _, slot := range e.OutSlots {
				s.markSilentLazy(slot)
			}

		case types.ProcessBypass:
			for i, outSlot := range e.OutSlots {
				if outSlot == ScratchSlot {
					continue
				}
				if i >= len(e.InSlots) {
					s.markSilentLazy(outSlot)
					continue
				}
				inSlot := e.InSlots[i]
				if s.slotSilent[inSlot] {
					s.markSilentLazy(outSlot)
					continue
				}
				copy(s.pool[outSlot][:blockFrames], s.pool[inSlot][:blockFrames])
				s.slotSilent[outSlot] = false
				s.slotDirty[outSlot] = false
			}
		}
	}
}

// ReadGraphOutputs ends a block. It hands sink one read-only view per
// graph-output channel, restricted to blockFrames, plus the combined silence
// mask. Slots still pending a lazy zero are cleared first, so sink always
// observes real zeros on silent channels.
func (s *Schedule) ReadGraphOutputs(blockFrames, numOutChannels int, sink func(channels [][]float32, silenceMask types.SilenceMask)) {
	s.checkBlockFrames(blockFrames)

	mask := types.SilenceMaskNone
	for i, slot := range s.graphOutSlots {
		if s.slotSilent[slot] {
			mask = mask.WithChannelSilent(i, true)
			if s.slotDirty[slot] {
				clearSlot(s.pool[slot], blockFrames)
				s.slotDirty[slot] = false
			}
		}
		s.outViews[i] = s.pool[slot][:blockFrames]
	}

	sink(s.outViews, mask)
}

// markSilentLazy marks a slot silent, deferring the zero of its stale
// contents to the first read.
func (s *Schedule) markSilentLazy(slot int) {
	alreadyZero := s.slotSilent[slot] && !s.slotDirty[slot]
	s.slotSilent[slot] = true
	s.slotDirty[slot] = !alreadyZero
}

// resetSlotState clears per-block silence tracking. The canonical silent
// slot is permanently silent and permanently zero.
func (s *Schedule) resetSlotState() {
	for i := range s.slotSilent {
		s.slotSilent[i] = false
		s.slotDirty[i] = false
	}
	s.slotSilent[SilentSlot] = true
}

func (s *Schedule) checkBlockFrames(blockFrames int) {
	if blockFrames <= 0 || blockFrames > s.maxBlockFrames {
		panic("schedule: block frames out of range")
	}
}

func clearSlot(buf []float32, frames int) {
	for i := 0; i < frames; i++ {
		buf[i] = 0.0
	}
}
