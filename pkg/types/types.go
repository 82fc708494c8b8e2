package types

import "fmt"

// ============================================================================
// Identifiers
// ============================================================================

// ChannelCount is a count of audio channels or ports on a node.
type ChannelCount uint32

// InPortIdx is the index of an input port on a node.
type InPortIdx uint32

// OutPortIdx is the index of an output port on a node.
type OutPortIdx uint32

// NodeID is a generational handle identifying a node in the graph.
// Idx is a dense index into the node arena; Gen is incremented every time
// the slot at Idx is reused, so stale handles never alias a newer node.
type NodeID struct {
	Idx uint32
	Gen uint32
}

// String returns a compact representation, e.g. "node(3v1)".
func (id NodeID) String() string {
	return fmt.Sprintf("node(%dv%d)", id.Idx, id.Gen)
}

// EdgeID uniquely identifies an edge in the graph.
type EdgeID uint64

// Edge connects an output port on a source node to an input port on a
// destination node.
type Edge struct {
	ID      EdgeID
	SrcNode NodeID
	SrcPort OutPortIdx
	DstNode NodeID
	DstPort InPortIdx
}

// ============================================================================
// Channel Configuration
// ============================================================================

// ChannelConfig is the number of input and output ports a node instance
// was created with.
type ChannelConfig struct {
	NumInputs  ChannelCount
	NumOutputs ChannelCount
}

// AudioNodeInfo describes the port counts an AudioNode implementation
// supports, plus its debug name.
type AudioNodeInfo struct {
	DebugName              string
	NumMinSupportedInputs  ChannelCount
	NumMaxSupportedInputs  ChannelCount
	NumMinSupportedOutputs ChannelCount
	NumMaxSupportedOutputs ChannelCount
}

// Supports reports whether the given channel configuration falls within the
// declared min/max port counts.
func (i AudioNodeInfo) Supports(cfg ChannelConfig) bool {
	return cfg.NumInputs >= i.NumMinSupportedInputs &&
		cfg.NumInputs <= i.NumMaxSupportedInputs &&
		cfg.NumOutputs >= i.NumMinSupportedOutputs &&
		cfg.NumOutputs <= i.NumMaxSupportedOutputs
}

// ============================================================================
// Silence Masks
// ============================================================================

// SilenceMask is a bitset over channels where a set bit means the channel is
// known to contain only zeros. Channel indices beyond 63 are never treated
// as silent.
type SilenceMask uint64

// SilenceMaskNone marks every channel as potentially non-silent.
const SilenceMaskNone SilenceMask = 0

// NewSilenceMaskAllSilent returns a mask with the first numChannels bits set.
func NewSilenceMaskAllSilent(numChannels int) SilenceMask {
	if numChannels <= 0 {
		return 0
	}
	if numChannels >= 64 {
		return ^SilenceMask(0)
	}
	return SilenceMask(1)<<uint(numChannels) - 1
}

// IsChannelSilent reports whether channel i is known silent.
func (m SilenceMask) IsChannelSilent(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return m&(SilenceMask(1)<<uint(i)) != 0
}

// WithChannelSilent returns a copy of the mask with channel i set or cleared.
func (m SilenceMask) WithChannelSilent(i int, silent bool) SilenceMask {
	if i < 0 || i >= 64 {
		return m
	}
	if silent {
		return m | SilenceMask(1)<<uint(i)
	}
	return m &^ (SilenceMask(1) << uint(i))
}

// AllChannelsSilent reports whether the first numChannels bits are all set.
func (m SilenceMask) AllChannelsSilent(numChannels int) bool {
	want := NewSilenceMaskAllSilent(numChannels)
	return m&want == want
}

// ============================================================================
// Stream Description
// ============================================================================

// StreamStatus carries flags reported by the audio backend for the current
// callback.
type StreamStatus uint32

const (
	// StreamStatusInputOverflow indicates the input stream dropped frames
	// because the callback did not keep up.
	StreamStatusInputOverflow StreamStatus = 1 << iota
	// StreamStatusOutputUnderflow indicates the output stream ran dry and
	// glitched before this callback.
	StreamStatusOutputUnderflow
)

// Contains reports whether all flags in s are set.
func (st StreamStatus) Contains(s StreamStatus) bool {
	return st&s == s
}

// StreamInfo describes the audio stream a processor is bound to. It is
// immutable for the lifetime of the processor.
type StreamInfo struct {
	SampleRate     uint32
	MaxBlockFrames int
	NumInChannels  ChannelCount
	NumOutChannels ChannelCount
}

// ============================================================================
// Node Contracts
// ============================================================================

// ProcessStatusKind discriminates the variants of ProcessStatus.
type ProcessStatusKind uint8

const (
	// ProcessOutputsNotModified means the node did not touch its output
	// buffers; the engine treats them as silent and zeroes them lazily.
	ProcessOutputsNotModified ProcessStatusKind = iota
	// ProcessOutputsModified means the node wrote its outputs; the attached
	// mask marks which channels it knows to be silent.
	ProcessOutputsModified
	// ProcessBypass means inputs should be copied to outputs
	// position-by-position, extra outputs silent.
	ProcessBypass
)

// ProcessStatus is returned by AudioNodeProcessor.Process to describe what
// happened to the node's output buffers.
type ProcessStatus struct {
	Kind           ProcessStatusKind
	OutSilenceMask SilenceMask
}

// OutputsNotModified returns the status for a node that left its outputs
// untouched.
func OutputsNotModified() ProcessStatus {
	return ProcessStatus{Kind: ProcessOutputsNotModified}
}

// OutputsModified returns the status for a node that wrote its outputs.
// Set bits in mask assert the corresponding output channels contain only
// zeros.
func OutputsModified(mask SilenceMask) ProcessStatus {
	return ProcessStatus{Kind: ProcessOutputsModified, OutSilenceMask: mask}
}

// Bypass returns the status requesting an input-to-output copy.
func Bypass() ProcessStatus {
	return ProcessStatus{Kind: ProcessBypass}
}

// ProcInfo conveys per-block context to an AudioNodeProcessor.
type ProcInfo[C any] struct {
	// Frames is the number of valid frames in each buffer for this block.
	Frames int
	// InSilenceMask marks input channels known to contain only zeros.
	InSilenceMask SilenceMask
	// OutSilenceMask marks output channels whose buffers already contain
	// only zeros, left so by an earlier entry of the same block.
	OutSilenceMask SilenceMask
	// StreamTimeSecs is the stream clock at the start of the callback.
	StreamTimeSecs float64
	// StreamStatus carries backend underrun/overrun flags.
	StreamStatus StreamStatus
	// Cx is the user context shared by all processors on the audio thread.
	Cx *C
}

// AudioNode is the control-thread half of a node: a factory that describes
// its supported channel configurations and produces the real-time processor
// on activation.
type AudioNode[C any] interface {
	// Info returns the node's debug name and supported port counts.
	Info() AudioNodeInfo

	// Activate produces the real-time processor for this node. It is called
	// on the control thread; the returned processor is then owned by the
	// audio thread until evicted.
	Activate(sampleRate uint32, numInputs, numOutputs ChannelCount) (AudioNodeProcessor[C], error)
}

// ChannelConfigValidator may be implemented by an AudioNode to reject
// channel configurations beyond the min/max bounds in its AudioNodeInfo.
type ChannelConfigValidator interface {
	ValidateChannelConfig(cfg ChannelConfig) error
}

// AudioNodeProcessor is the real-time half of a node. Process is invoked on
// the audio thread and must not allocate, block, or lock.
//
// inputs holds one buffer per input port and outputs one buffer per output
// port, each exactly info.Frames long. Input buffers must be treated as
// read-only; fan-out means other nodes may consume the same buffer.
type AudioNodeProcessor[C any] interface {
	Process(inputs [][]float32, outputs [][]float32, info ProcInfo[C]) ProcessStatus
}
