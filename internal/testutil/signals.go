// Package testutil builds deterministic test signals and buffers and checks
// them against tolerances.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
)

// Sine returns n samples of amplitude·sin(2πft/sr) starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	w := 2 * math.Pi * freqHz / sampleRate

	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}

	return out
}

// Noise returns n uniform samples in [-amplitude, amplitude). The same seed
// always yields the same samples.
func Noise(seed int64, amplitude float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))

	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}

	return out
}

// Impulse returns n samples with a unit impulse at pos. An out-of-range pos
// gives silence.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}

	return out
}

// DC returns n samples of v.
func DC(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// SineBuffer returns a buffer whose channels all carry the same sine.
func SineBuffer(tb testing.TB, freqHz float64, sampleRate, channels, frames int, amplitude float64) *buffer.Buffer {
	tb.Helper()

	return fill(tb, sampleRate, channels, func(int) []float64 {
		return Sine(freqHz, float64(sampleRate), amplitude, frames)
	})
}

// NoiseBuffer returns a buffer with independent noise per channel, seeded
// from seed+channel.
func NoiseBuffer(tb testing.TB, seed int64, sampleRate, channels, frames int, amplitude float64) *buffer.Buffer {
	tb.Helper()

	return fill(tb, sampleRate, channels, func(ch int) []float64 {
		return Noise(seed+int64(ch), amplitude, frames)
	})
}

// ImpulseBuffer returns a buffer with a unit impulse at frame pos on every
// channel.
func ImpulseBuffer(tb testing.TB, sampleRate, channels, frames, pos int) *buffer.Buffer {
	tb.Helper()

	return fill(tb, sampleRate, channels, func(int) []float64 {
		return Impulse(frames, pos)
	})
}

// DCBuffer returns a buffer holding v on every sample.
func DCBuffer(tb testing.TB, sampleRate, channels, frames int, v float64) *buffer.Buffer {
	tb.Helper()

	return fill(tb, sampleRate, channels, func(int) []float64 {
		return DC(v, frames)
	})
}

func fill(tb testing.TB, sampleRate, channels int, gen func(ch int) []float64) *buffer.Buffer {
	tb.Helper()

	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = gen(ch)
	}

	b, err := buffer.FromChannels(data, sampleRate)
	if err != nil {
		tb.Fatalf("testutil: %v", err)
	}

	return b
}
