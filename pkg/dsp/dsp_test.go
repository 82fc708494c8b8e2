package dsp

import (
	"math"
	"testing"

	"github.com/yesoreyeram/osai/pkg/types"
)

// TestInterleave_RoundTrip verifies deinterleave(interleave(X)) == X for
// buffers of valid shape.
func TestInterleave_RoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		numChannels int
		frames      int
	}{
		{name: "mono", numChannels: 1, frames: 64},
		{name: "stereo", numChannels: 2, frames: 128},
		{name: "surround", numChannels: 6, frames: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := make([][]float32, tt.numChannels)
			for ch := range src {
				src[ch] = make([]float32, tt.frames)
				for f := range src[ch] {
					src[ch][f] = float32(math.Sin(float64(f*(ch+1)) * 0.1))
				}
			}

			interleaved := make([]float32, tt.frames*tt.numChannels)
			Interleave(src, interleaved, tt.numChannels, types.SilenceMaskNone)

			dst := make([][]float32, tt.numChannels)
			for ch := range dst {
				dst[ch] = make([]float32, tt.frames)
			}
			mask := Deinterleave(dst, interleaved, tt.numChannels, true)

			for ch := range src {
				for f := range src[ch] {
					if dst[ch][f] != src[ch][f] {
						t.Fatalf("channel %d frame %d: got %v, want %v", ch, f, dst[ch][f], src[ch][f])
					}
				}
				if mask.IsChannelSilent(ch) {
					t.Errorf("channel %d incorrectly marked silent", ch)
				}
			}
		})
	}
}

func TestDeinterleave_SilenceDetection(t *testing.T) {
	// Channel 0 carries a signal, channel 1 is all zeros.
	interleaved := []float32{1, 0, 2, 0, 3, 0, 4, 0}
	channels := [][]float32{make([]float32, 4), make([]float32, 4)}

	mask := Deinterleave(channels, interleaved, 2, true)

	if mask.IsChannelSilent(0) {
		t.Error("channel 0 carries a signal, must not be silent")
	}
	if !mask.IsChannelSilent(1) {
		t.Error("channel 1 is all zeros, must be silent")
	}
}

func TestDeinterleave_ExtraChannelsZeroedAndSilent(t *testing.T) {
	// Hardware delivers mono, the graph expects stereo.
	interleaved := []float32{1, 2, 3, 4}
	channels := [][]float32{make([]float32, 4), {9, 9, 9, 9}}

	mask := Deinterleave(channels, interleaved, 1, true)

	if !mask.IsChannelSilent(1) {
		t.Error("extra channel must be marked silent")
	}
	for f, s := range channels[1] {
		if s != 0 {
			t.Fatalf("extra channel frame %d not zeroed: %v", f, s)
		}
	}
}

func TestInterleave_SilentChannelsWriteZeros(t *testing.T) {
	channels := [][]float32{{5, 5}, {7, 7}}
	interleaved := []float32{9, 9, 9, 9}

	mask := types.SilenceMaskNone.WithChannelSilent(1, true)
	Interleave(channels, interleaved, 2, mask)

	want := []float32{5, 0, 5, 0}
	for i := range want {
		if interleaved[i] != want[i] {
			t.Fatalf("interleaved[%d] = %v, want %v", i, interleaved[i], want[i])
		}
	}
}

func TestDBToGain(t *testing.T) {
	tests := []struct {
		name string
		db   float32
		want float32
		tol  float64
	}{
		{name: "unity", db: 0, want: 1.0, tol: 1e-6},
		{name: "minus six", db: -6, want: 0.5011872, tol: 1e-6},
		{name: "clamped to zero", db: -100, want: 0, tol: 0},
		{name: "below clamp", db: -120, want: 0, tol: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DBToGain(tt.db)
			if math.Abs(float64(got-tt.want)) > tt.tol {
				t.Errorf("DBToGain(%v) = %v, want %v", tt.db, got, tt.want)
			}
		})
	}
}

func TestGainToDB_RoundTrip(t *testing.T) {
	for _, db := range []float32{0, -6, -20, -60} {
		gain := DBToGain(db)
		back := GainToDB(gain)
		if math.Abs(float64(back-db)) > 1e-3 {
			t.Errorf("round trip %v dB -> %v -> %v dB", db, gain, back)
		}
	}
	if GainToDB(0) != -100 {
		t.Errorf("GainToDB(0) = %v, want -100", GainToDB(0))
	}
}

func BenchmarkDeinterleave(b *testing.B) {
	interleaved := make([]float32, 512*2)
	channels := [][]float32{make([]float32, 512), make([]float32, 512)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Deinterleave(channels, interleaved, 2, true)
	}
}
