package nodes

import "github.com/yesoreyeram/osai/pkg/types"

// SumNode mixes all of its input channels into a single output channel.
type SumNode[C any] struct{}

// NewSum creates a mixer node.
func NewSum[C any]() *SumNode[C] { return &SumNode[C]{} }

func (n *SumNode[C]) Info() types.AudioNodeInfo {
	return types.AudioNodeInfo{
		DebugName:              "sum",
		NumMinSupportedInputs:  1,
		NumMaxSupportedInputs:  64,
		NumMinSupportedOutputs: 1,
		NumMaxSupportedOutputs: 1,
	}
}

func (n *SumNode[C]) Activate(sampleRate uint32, numInputs, numOutputs types.ChannelCount) (types.AudioNodeProcessor[C], error) {
	return sumProcessor[C]{}, nil
}

type sumProcessor[C any] struct{}

func (sumProcessor[C]) Process(inputs, outputs [][]float32, info types.ProcInfo[C]) types.ProcessStatus {
	if info.InSilenceMask.AllChannelsSilent(len(inputs)) {
		return types.OutputsNotModified()
	}

	out := outputs[0]
	clear(out[:info.Frames])
	for ch, in := range inputs {
		if info.InSilenceMask.IsChannelSilent(ch) {
			continue
		}
		for i := 0; i < info.Frames; i++ {
			out[i] += in[i]
		}
	}

	return types.OutputsModified(types.SilenceMaskNone)
}
