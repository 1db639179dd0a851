package xo8

import "math"

const (
	// AudioSampleRate is the rate the host mixer runs at.
	AudioSampleRate = 48000
	// minWaveformSamples keeps looped buffers long enough to cycle without a gap.
	minWaveformSamples = 3200
)

// Power-on audio settings. Pitch 64 is the 4000Hz baseline tone.
const (
	DefaultPitch        byte    = 64
	DefaultPlaybackRate float64 = 4000
)

// PlaybackRate converts a pitch register value into samples per second.
// Every 48 steps of pitch doubles or halves the rate around the baseline.
func PlaybackRate(pitch byte) float64 {
	return 4000 * math.Pow(2, (float64(pitch)-64)/48)
}

// GenerateWaveform expands the 16-byte tone pattern into playable samples.
// Each pattern bit becomes one full-swing unsigned 8-bit sample, read out
// at rate and resampled to the mixer rate. The result is doubled until it
// is long enough to loop.
func GenerateWaveform(pattern [16]byte, rate float64) []byte {
	var data [128]byte
	for i, b := range pattern {
		for bit := 0; bit < 8; bit++ {
			if b&(0x80>>bit) != 0 {
				data[i*8+bit] = 0xFF
			}
		}
	}

	step := rate / AudioSampleRate
	samples := make([]byte, 0, minWaveformSamples*2)
	for position := 0.0; position < 128; position += step {
		samples = append(samples, data[int(position)])
	}

	for len(samples) < minWaveformSamples {
		samples = append(samples, samples...)
	}

	return samples
}
