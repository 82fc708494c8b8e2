package nodes

import (
	"math"
	"testing"

	"github.com/yesoreyeram/osai/pkg/types"
)

type testCx = struct{}

func procInfo(frames int, inMask types.SilenceMask) types.ProcInfo[testCx] {
	return types.ProcInfo[testCx]{Frames: frames, InSilenceMask: inMask}
}

func TestBeep_DisabledProducesNothing(t *testing.T) {
	node := NewBeep[testCx](440, -6, false)
	proc, err := node.Activate(48000, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	out := make([]float32, 512)
	status := proc.Process(nil, [][]float32{out}, procInfo(512, 0))

	if status.Kind != types.ProcessOutputsNotModified {
		t.Fatalf("status = %v, want OutputsNotModified", status.Kind)
	}
}

// TestBeep_EnabledTone verifies a 440 Hz sine at -6 dB with phase
// continuity across blocks.
func TestBeep_EnabledTone(t *testing.T) {
	const (
		sampleRate = 48000
		freq       = 440.0
		wantGain   = 0.5011872
	)
	node := NewBeep[testCx](freq, -6, false)
	proc, err := node.Activate(sampleRate, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Disabled first: output untouched.
	block := make([]float32, 256)
	proc.Process(nil, [][]float32{block}, procInfo(256, 0))

	node.SetEnabled(true)

	// Two consecutive blocks; the phase must continue across the seam.
	got := make([]float32, 0, 512)
	for b := 0; b < 2; b++ {
		status := proc.Process(nil, [][]float32{block}, procInfo(256, 0))
		if status.Kind != types.ProcessOutputsModified {
			t.Fatalf("status = %v, want OutputsModified", status.Kind)
		}
		got = append(got, block...)
	}

	phasorInc := float32(freq) / float32(sampleRate)
	phasor := float32(0)
	for i, sample := range got {
		want := float32(math.Sin(float64(phasor)*2.0*math.Pi)) * wantGain
		if math.Abs(float64(sample-want)) > 1e-6 {
			t.Fatalf("sample %d: got %v, want %v", i, sample, want)
		}
		phasor += phasorInc
		phasor -= float32(math.Trunc(float64(phasor)))
	}

	// Amplitude check: the peak of a full cycle is the linear gain.
	var peak float32
	for _, s := range got {
		if s > peak {
			peak = s
		}
	}
	if math.Abs(float64(peak-wantGain)) > 1e-3 {
		t.Errorf("peak = %v, want about %v", peak, wantGain)
	}
}

func TestBeep_ClampsParameters(t *testing.T) {
	node := NewBeep[testCx](5, 12, true)
	if node.freqHz != 20 {
		t.Errorf("freq clamped to %v, want 20", node.freqHz)
	}
	if node.gain != 1 {
		t.Errorf("gain clamped to %v, want 1", node.gain)
	}
	if g := NewBeep[testCx](440, -120, true).gain; g != 0 {
		t.Errorf("gain below -100 dB = %v, want 0", g)
	}
}

func TestBeep_MultiChannelCopies(t *testing.T) {
	node := NewBeep[testCx](440, 0, true)
	proc, err := node.Activate(48000, 0, 2)
	if err != nil {
		t.Fatal(err)
	}

	left := make([]float32, 64)
	right := make([]float32, 64)
	proc.Process(nil, [][]float32{left, right}, procInfo(64, 0))

	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("frame %d: channels differ (%v vs %v)", i, left[i], right[i])
		}
	}
}

func TestIdentity_Bypasses(t *testing.T) {
	node := NewIdentity[testCx]()
	proc, err := node.Activate(48000, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	status := proc.Process([][]float32{{1, 2}}, [][]float32{{0, 0}}, procInfo(2, 0))
	if status.Kind != types.ProcessBypass {
		t.Fatalf("status = %v, want Bypass", status.Kind)
	}
}

func TestVolume_AppliesGain(t *testing.T) {
	node := NewVolume[testCx](-6)
	proc, err := node.Activate(48000, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	in := []float32{1, -1, 0.5}
	out := make([]float32, 3)
	status := proc.Process([][]float32{in}, [][]float32{out}, procInfo(3, 0))

	if status.Kind != types.ProcessOutputsModified {
		t.Fatalf("status = %v", status.Kind)
	}
	gain := 0.5011872
	for i := range in {
		want := in[i] * float32(gain)
		if math.Abs(float64(out[i]-want)) > 1e-6 {
			t.Fatalf("frame %d: got %v, want %v", i, out[i], want)
		}
	}
}

func TestVolume_Shortcuts(t *testing.T) {
	node := NewVolume[testCx](-120)
	proc, _ := node.Activate(48000, 1, 1)
	if s := proc.Process([][]float32{{1}}, [][]float32{{0}}, procInfo(1, 0)); s.Kind != types.ProcessOutputsNotModified {
		t.Errorf("muted volume status = %v, want OutputsNotModified", s.Kind)
	}

	node.SetGainDB(0)
	if s := proc.Process([][]float32{{1}}, [][]float32{{0}}, procInfo(1, 0)); s.Kind != types.ProcessBypass {
		t.Errorf("unity volume status = %v, want Bypass", s.Kind)
	}
}

func TestVolume_SilentInputStaysSilent(t *testing.T) {
	node := NewVolume[testCx](-6)
	proc, _ := node.Activate(48000, 2, 2)

	in := [][]float32{{1, 1}, {9, 9}} // ch1 claims silent despite stale data
	out := [][]float32{{0, 0}, {9, 9}}
	mask := types.SilenceMaskNone.WithChannelSilent(1, true)
	status := proc.Process(in, out, procInfo(2, mask))

	if !status.OutSilenceMask.IsChannelSilent(1) {
		t.Error("silent input channel must stay silent on output")
	}
	if out[1][0] != 0 || out[1][1] != 0 {
		t.Error("silent output channel must be zeroed")
	}
}

func TestVolume_ValidatesChannelConfig(t *testing.T) {
	node := NewVolume[testCx](0)
	if err := node.ValidateChannelConfig(types.ChannelConfig{NumInputs: 2, NumOutputs: 2}); err != nil {
		t.Errorf("matching config rejected: %v", err)
	}
	if err := node.ValidateChannelConfig(types.ChannelConfig{NumInputs: 1, NumOutputs: 2}); err == nil {
		t.Error("mismatched config must be rejected")
	}
}

func TestSum_MixesInputs(t *testing.T) {
	node := NewSum[testCx]()
	proc, err := node.Activate(48000, 3, 1)
	if err != nil {
		t.Fatal(err)
	}

	in := [][]float32{{1, 2}, {10, 20}, {5, 5}} // ch2 masked silent
	out := make([]float32, 2)
	mask := types.SilenceMaskNone.WithChannelSilent(2, true)
	proc.Process(in, [][]float32{out}, procInfo(2, mask))

	if out[0] != 11 || out[1] != 22 {
		t.Errorf("mix = %v, want [11 22]", out)
	}
}

func TestSum_AllSilentSkipsWork(t *testing.T) {
	node := NewSum[testCx]()
	proc, _ := node.Activate(48000, 2, 1)

	in := [][]float32{{1, 1}, {1, 1}}
	status := proc.Process(in, [][]float32{make([]float32, 2)}, procInfo(2, types.NewSilenceMaskAllSilent(2)))

	if status.Kind != types.ProcessOutputsNotModified {
		t.Errorf("status = %v, want OutputsNotModified", status.Kind)
	}
}
