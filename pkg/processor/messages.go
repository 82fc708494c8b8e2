package processor

import (
	"github.com/yesoreyeram/osai/pkg/schedule"
	"github.com/yesoreyeram/osai/pkg/types"
)

// NodeProcessorPair couples a node handle with its real-time processor for
// transport across the thread boundary.
type NodeProcessorPair[C any] struct {
	NodeID    types.NodeID
	Processor types.AudioNodeProcessor[C]
}

// ScheduleHeapData bundles everything the control thread allocates for one
// schedule swap. It crosses to the audio thread in a NewSchedule message and
// comes back in a ReturnSchedule message once replaced.
type ScheduleHeapData[C any] struct {
	// Schedule is the compiled execution plan.
	Schedule *schedule.Schedule

	// NewNodeProcessors are installed into the audio-thread arena when the
	// schedule is adopted.
	NewNodeProcessors []NodeProcessorPair[C]

	// NodesToRemove lists nodes whose processors must be evicted when this
	// schedule replaces the previous one.
	NodesToRemove []types.NodeID

	// RemovedNodeProcessors is preallocated by the control thread with
	// capacity for NodesToRemove. The audio thread fills it with the
	// processors it evicts, so they ride back without any audio-thread
	// allocation.
	RemovedNodeProcessors []NodeProcessorPair[C]
}

type ctxMsgKind uint8

const (
	msgNewSchedule ctxMsgKind = iota
	msgStop
)

// ContextToProcessorMsg travels from the control thread to the audio thread.
type ContextToProcessorMsg[C any] struct {
	kind         ctxMsgKind
	scheduleData *ScheduleHeapData[C]
}

// NewScheduleMsg wraps freshly compiled schedule data for delivery.
func NewScheduleMsg[C any](data *ScheduleHeapData[C]) ContextToProcessorMsg[C] {
	return ContextToProcessorMsg[C]{kind: msgNewSchedule, scheduleData: data}
}

// StopMsg requests the processor stop running and report
// StatusDropProcessor from its next callback.
func StopMsg[C any]() ContextToProcessorMsg[C] {
	return ContextToProcessorMsg[C]{kind: msgStop}
}

// ProcessorToContextMsgKind discriminates outbound messages.
type ProcessorToContextMsgKind uint8

const (
	// MsgReturnSchedule returns a replaced schedule, with any evicted
	// processors, for control-thread disposal.
	MsgReturnSchedule ProcessorToContextMsgKind = iota
	// MsgDropped carries everything the processor owned at shutdown.
	MsgDropped
)

// ProcessorToContextMsg travels from the audio thread back to the control
// thread. The control thread is responsible for dropping every reference it
// carries.
type ProcessorToContextMsg[C any] struct {
	Kind ProcessorToContextMsgKind

	// ScheduleData is the returned schedule (MsgReturnSchedule), or the
	// still-active schedule at shutdown (MsgDropped, may be nil).
	ScheduleData *ScheduleHeapData[C]

	// Nodes holds the entire installed-processor set (MsgDropped only).
	Nodes []NodeProcessorPair[C]

	// UserCx is the user context handed back at shutdown (MsgDropped only).
	UserCx *C
}
