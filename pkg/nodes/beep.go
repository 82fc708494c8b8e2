package nodes

import (
	"math"
	"sync/atomic"

	"github.com/yesoreyeram/osai/pkg/dsp"
	"github.com/yesoreyeram/osai/pkg/types"
)

// BeepNode generates a sine test tone on every output channel. The tone can
// be toggled from the control thread at any time; the processor picks the
// change up lock-free at the next block.
type BeepNode[C any] struct {
	enabled *atomic.Bool
	freqHz  float32
	gain    float32
}

// NewBeep creates a beep node. freqHz is clamped to [20, 20000] and gainDB
// to a linear gain in [0, 1], with -100 dB and below collapsing to silence.
func NewBeep[C any](freqHz, gainDB float32, enabled bool) *BeepNode[C] {
	if freqHz < 20.0 {
		freqHz = 20.0
	} else if freqHz > 20000.0 {
		freqHz = 20000.0
	}

	gain := dsp.DBToGain(gainDB)
	if gain > 1.0 {
		gain = 1.0
	}

	n := &BeepNode[C]{
		enabled: &atomic.Bool{},
		freqHz:  freqHz,
		gain:    gain,
	}
	n.enabled.Store(enabled)
	return n
}

// Enabled reports whether the tone is currently on.
func (n *BeepNode[C]) Enabled() bool { return n.enabled.Load() }

// SetEnabled toggles the tone. Safe to call while the processor is running.
func (n *BeepNode[C]) SetEnabled(enabled bool) { n.enabled.Store(enabled) }

func (n *BeepNode[C]) Info() types.AudioNodeInfo {
	return types.AudioNodeInfo{
		DebugName:              "beep",
		NumMinSupportedOutputs: 1,
		NumMaxSupportedOutputs: 64,
	}
}

func (n *BeepNode[C]) Activate(sampleRate uint32, numInputs, numOutputs types.ChannelCount) (types.AudioNodeProcessor[C], error) {
	return &beepProcessor[C]{
		enabled:   n.enabled,
		phasorInc: n.freqHz / float32(sampleRate),
		gain:      n.gain,
	}, nil
}

type beepProcessor[C any] struct {
	enabled   *atomic.Bool
	phasor    float32
	phasorInc float32
	gain      float32
}

func (p *beepProcessor[C]) Process(inputs, outputs [][]float32, info types.ProcInfo[C]) types.ProcessStatus {
	if len(outputs) == 0 {
		return types.OutputsNotModified()
	}

	if !p.enabled.Load() {
		return types.OutputsNotModified()
	}

	out1 := outputs[0]
	for i := 0; i < info.Frames; i++ {
		out1[i] = float32(math.Sin(float64(p.phasor)*2.0*math.Pi)) * p.gain
		p.phasor += p.phasorInc
		p.phasor -= float32(math.Trunc(float64(p.phasor)))
	}

	for ch := 1; ch < len(outputs); ch++ {
		copy(outputs[ch], out1[:info.Frames])
	}

	return types.OutputsModified(types.SilenceMaskNone)
}
