package dsp

import (
	"math"

	"github.com/yesoreyeram/osai/pkg/types"
)

// minGainDB is the floor below which gains are treated as silence.
const minGainDB = -100.0

// Deinterleave splits interleaved PCM samples into per-channel buffers.
//
// interleaved holds frames*numInterleavedChannels samples in frame-major
// order. Each buffer in channels receives its channel's samples; channels
// beyond numInterleavedChannels are zero-filled. When calcSilence is true
// every channel is scanned and the returned mask has a bit set for each
// channel containing only zeros; zero-filled extra channels are always
// marked silent.
func Deinterleave(channels [][]float32, interleaved []float32, numInterleavedChannels int, calcSilence bool) types.SilenceMask {
	mask := types.SilenceMaskNone

	if numInterleavedChannels <= 0 {
		for ch, buf := range channels {
			clearBuf(buf)
			mask = mask.WithChannelSilent(ch, true)
		}
		return mask
	}

	frames := len(interleaved) / numInterleavedChannels

	for ch, buf := range channels {
		if ch >= numInterleavedChannels {
			clearBuf(buf)
			mask = mask.WithChannelSilent(ch, true)
			continue
		}

		silent := true
		for f := 0; f < frames && f < len(buf); f++ {
			s := interleaved[f*numInterleavedChannels+ch]
			buf[f] = s
			if s != 0.0 {
				silent = false
			}
		}

		if calcSilence && silent {
			mask = mask.WithChannelSilent(ch, true)
		}
	}

	return mask
}

// Interleave merges per-channel buffers into an interleaved PCM buffer.
//
// interleaved must hold frames*numInterleavedChannels samples. Channels
// marked silent in the mask, and interleaved channels with no corresponding
// buffer, are written as zeros so stale data never leaks to the hardware.
func Interleave(channels [][]float32, interleaved []float32, numInterleavedChannels int, silenceMask types.SilenceMask) {
	if numInterleavedChannels <= 0 {
		return
	}

	frames := len(interleaved) / numInterleavedChannels

	for ch := 0; ch < numInterleavedChannels; ch++ {
		if ch >= len(channels) || silenceMask.IsChannelSilent(ch) {
			for f := 0; f < frames; f++ {
				interleaved[f*numInterleavedChannels+ch] = 0.0
			}
			continue
		}

		buf := channels[ch]
		for f := 0; f < frames; f++ {
			interleaved[f*numInterleavedChannels+ch] = buf[f]
		}
	}
}

// DBToGain converts decibels to a linear gain factor. Values at or below
// -100 dB collapse to exactly 0.0.
func DBToGain(db float32) float32 {
	if db <= minGainDB {
		return 0.0
	}
	return float32(math.Pow(10.0, float64(db)/20.0))
}

// GainToDB converts a linear gain factor to decibels. Gains at or below the
// -100 dB floor return -100.
func GainToDB(gain float32) float32 {
	if gain <= 0.00001 {
		return minGainDB
	}
	return float32(20.0 * math.Log10(float64(gain)))
}

// Clear zeroes the first frames samples of every buffer.
func Clear(buffers [][]float32, frames int) {
	for _, buf := range buffers {
		n := frames
		if n > len(buf) {
			n = len(buf)
		}
		for i := 0; i < n; i++ {
			buf[i] = 0.0
		}
	}
}

func clearBuf(buf []float32) {
	for i := range buf {
		buf[i] = 0.0
	}
}
