package nodes

import "github.com/yesoreyeram/osai/pkg/types"

// IdentityNode passes its inputs through unchanged. Useful as a routing
// point and as the simplest possible node in tests.
type IdentityNode[C any] struct{}

// NewIdentity creates an identity node.
func NewIdentity[C any]() *IdentityNode[C] { return &IdentityNode[C]{} }

func (n *IdentityNode[C]) Info() types.AudioNodeInfo {
	return types.AudioNodeInfo{
		DebugName:              "identity",
		NumMinSupportedInputs:  1,
		NumMaxSupportedInputs:  64,
		NumMinSupportedOutputs: 1,
		NumMaxSupportedOutputs: 64,
	}
}

func (n *IdentityNode[C]) Activate(sampleRate uint32, numInputs, numOutputs types.ChannelCount) (types.AudioNodeProcessor[C], error) {
	return identityProcessor[C]{}, nil
}

type identityProcessor[C any] struct{}

func (identityProcessor[C]) Process(inputs, outputs [][]float32, info types.ProcInfo[C]) types.ProcessStatus {
	// The schedule's bypass path does the copy, with channel-count
	// matching and silence propagation for free.
	return types.Bypass()
}
