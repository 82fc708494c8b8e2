package nodes

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/yesoreyeram/osai/pkg/dsp"
	"github.com/yesoreyeram/osai/pkg/types"
)

var errVolumeChannelMismatch = errors.New("volume node requires matching input and output counts")

// VolumeNode applies a gain to every channel. The gain can be changed from
// the control thread while the processor runs; the value is carried as raw
// float bits in an atomic cell.
type VolumeNode[C any] struct {
	gainBits *atomic.Uint32
}

// NewVolume creates a volume node at the given gain.
func NewVolume[C any](gainDB float32) *VolumeNode[C] {
	n := &VolumeNode[C]{gainBits: &atomic.Uint32{}}
	n.SetGainDB(gainDB)
	return n
}

// GainDB reports the current gain in decibels.
func (n *VolumeNode[C]) GainDB() float32 {
	return dsp.GainToDB(math.Float32frombits(n.gainBits.Load()))
}

// SetGainDB updates the gain. Safe to call while the processor is running.
func (n *VolumeNode[C]) SetGainDB(gainDB float32) {
	n.gainBits.Store(math.Float32bits(dsp.DBToGain(gainDB)))
}

func (n *VolumeNode[C]) Info() types.AudioNodeInfo {
	return types.AudioNodeInfo{
		DebugName:              "volume",
		NumMinSupportedInputs:  1,
		NumMaxSupportedInputs:  64,
		NumMinSupportedOutputs: 1,
		NumMaxSupportedOutputs: 64,
	}
}

// ValidateChannelConfig requires a matching input/output count, which the
// min/max bounds alone cannot express.
func (n *VolumeNode[C]) ValidateChannelConfig(cfg types.ChannelConfig) error {
	if cfg.NumInputs != cfg.NumOutputs {
		return errVolumeChannelMismatch
	}
	return nil
}

func (n *VolumeNode[C]) Activate(sampleRate uint32, numInputs, numOutputs types.ChannelCount) (types.AudioNodeProcessor[C], error) {
	return &volumeProcessor[C]{gainBits: n.gainBits}, nil
}

type volumeProcessor[C any] struct {
	gainBits *atomic.Uint32
}

func (p *volumeProcessor[C]) Process(inputs, outputs [][]float32, info types.ProcInfo[C]) types.ProcessStatus {
	gain := math.Float32frombits(p.gainBits.Load())

	if gain == 0.0 {
		return types.OutputsNotModified()
	}
	if gain == 1.0 {
		return types.Bypass()
	}

	mask := types.SilenceMaskNone
	for ch := range outputs {
		if ch >= len(inputs) || info.InSilenceMask.IsChannelSilent(ch) {
			mask = mask.WithChannelSilent(ch, true)
			clear(outputs[ch][:info.Frames])
			continue
		}
		in := inputs[ch]
		out := outputs[ch]
		for i := 0; i < info.Frames; i++ {
			out[i] = in[i] * gain
		}
	}

	return types.OutputsModified(mask)
}
