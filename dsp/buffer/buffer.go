package buffer

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Buffer holds planar float64 samples for one or more channels at a fixed
// sample rate. Every channel has exactly Frames() samples.
type Buffer struct {
	channels   [][]float64
	sampleRate int
}

// New returns a zero-filled Buffer with the given shape.
func New(channels, frames, sampleRate int) (*Buffer, error) {
	if err := validateShape(channels, frames, sampleRate); err != nil {
		return nil, err
	}

	data := make([][]float64, channels)
	backing := make([]float64, channels*frames)
	for ch := range data {
		data[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}

	return &Buffer{channels: data, sampleRate: sampleRate}, nil
}

// FromChannels wraps planar channel data without copying.
// All channels must have equal length.
func FromChannels(channels [][]float64, sampleRate int) (*Buffer, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("buffer: %w", core.InvalidParameter("channels", 0, "must be >= 1"))
	}
	frames := len(channels[0])
	if err := validateShape(len(channels), frames, sampleRate); err != nil {
		return nil, err
	}
	for ch, samples := range channels {
		if len(samples) != frames {
			return nil, fmt.Errorf("buffer: %w",
				core.InvalidParameter(fmt.Sprintf("channel %d length", ch), len(samples), fmt.Sprintf("must equal %d", frames)))
		}
	}

	return &Buffer{channels: channels, sampleRate: sampleRate}, nil
}

// FromInterleaved de-interleaves data (frame-major) into a new Buffer.
func FromInterleaved(data []float64, channels, sampleRate int) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("buffer: %w", core.InvalidParameter("channels", channels, "must be >= 1"))
	}
	if len(data)%channels != 0 {
		return nil, fmt.Errorf("buffer: %w",
			core.InvalidParameter("interleaved length", len(data), fmt.Sprintf("must be a multiple of %d", channels)))
	}

	b, err := New(channels, len(data)/channels, sampleRate)
	if err != nil {
		return nil, err
	}
	for i, v := range data {
		b.channels[i%channels][i/channels] = v
	}

	return b, nil
}

func validateShape(channels, frames, sampleRate int) error {
	if channels <= 0 {
		return fmt.Errorf("buffer: %w", core.InvalidParameter("channels", channels, "must be >= 1"))
	}
	if frames < 0 {
		return fmt.Errorf("buffer: %w", core.InvalidParameter("frames", frames, "must be >= 0"))
	}
	if sampleRate <= 0 {
		return fmt.Errorf("buffer: %w", core.InvalidParameter("sampleRate", sampleRate, "must be > 0"))
	}
	return nil
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.channels) }

// Frames returns the number of sample frames per channel.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Duration returns Frames()/SampleRate() in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

// Channel returns the samples of channel ch. The slice aliases the buffer.
func (b *Buffer) Channel(ch int) []float64 { return b.channels[ch] }

// Channels returns all channel slices. The slices alias the buffer.
func (b *Buffer) Channels() [][]float64 { return b.channels }

// Clone returns a deep copy with freshly allocated sample storage.
func (b *Buffer) Clone() *Buffer {
	frames := b.Frames()
	backing := make([]float64, len(b.channels)*frames)
	data := make([][]float64, len(b.channels))
	for ch, src := range b.channels {
		dst := backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
		copy(dst, src)
		data[ch] = dst
	}
	return &Buffer{channels: data, sampleRate: b.sampleRate}
}

// SameShape reports whether o has the same channel count, frame count and
// sample rate as b.
func (b *Buffer) SameShape(o *Buffer) bool {
	return o != nil &&
		b.sampleRate == o.sampleRate &&
		len(b.channels) == len(o.channels) &&
		b.Frames() == o.Frames()
}

// Equal reports whether o has the same shape and bit-identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameShape(o) {
		return false
	}
	for ch := range b.channels {
		x, y := b.channels[ch], o.channels[ch]
		for i := range x {
			if math.Float64bits(x[i]) != math.Float64bits(y[i]) {
				return false
			}
		}
	}
	return true
}

// Peak returns the largest absolute sample value across all channels.
func (b *Buffer) Peak() float64 {
	peak := 0.0
	for _, samples := range b.channels {
		if p := core.PeakAbs(samples); p > peak {
			peak = p
		}
	}
	return peak
}

// Interleaved returns the samples in frame-major order.
func (b *Buffer) Interleaved() []float64 {
	n := len(b.channels)
	out := make([]float64, n*b.Frames())
	for ch, samples := range b.channels {
		for i, v := range samples {
			out[i*n+ch] = v
		}
	}
	return out
}

// FrameAt returns the index of the frame that starts at t seconds,
// clamped to [0, Frames()].
func (b *Buffer) FrameAt(seconds float64) int {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	frame := int(seconds * float64(b.sampleRate))
	if frame > b.Frames() {
		return b.Frames()
	}
	return frame
}
