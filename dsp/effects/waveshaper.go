package effects

import (
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

const (
	// WaveshaperTableSize is the number of curve points tabulated on [-1, 1].
	WaveshaperTableSize = 4096

	defaultWaveshaperDrive      = 0.0
	defaultWaveshaperOversample = 1
)

// WaveshaperOption mutates construction-time parameters.
type WaveshaperOption func(*waveshaperConfig) error

type waveshaperConfig struct {
	drive      float64
	oversample int
}

func defaultWaveshaperConfig() waveshaperConfig {
	return waveshaperConfig{
		drive:      defaultWaveshaperDrive,
		oversample: defaultWaveshaperOversample,
	}
}

// WithWaveshaperDrive sets the curve drive amount k (>= 0).
func WithWaveshaperDrive(drive float64) WaveshaperOption {
	return func(cfg *waveshaperConfig) error {
		if drive < 0 || !core.IsFinite(drive) {
			return core.InvalidParameter("waveshaper drive", drive, "must be >= 0 and finite")
		}

		cfg.drive = drive

		return nil
	}
}

// WithWaveshaperOversample sets the oversampling factor (1, 2 or 4).
func WithWaveshaperOversample(factor int) WaveshaperOption {
	return func(cfg *waveshaperConfig) error {
		if !validOversample(factor) {
			return core.InvalidParameter("waveshaper oversample", factor, "must be 1, 2 or 4")
		}

		cfg.oversample = factor

		return nil
	}
}

// Waveshaper applies a static tabulated transfer curve
//
//	f(x) = (3+k) * x * 20 * (pi/180) / (pi + k*|x|)
//
// with input clamped to [-1, 1] and linear interpolation between table
// points. With oversampling, each input sample is linearly interpolated from
// the previous input into N sub-samples which are shaped individually and
// averaged back to one output sample.
//
// A Waveshaper is mono; keep one per channel.
type Waveshaper struct {
	drive      float64
	oversample int
	table      []float64
	prev       float64
}

// NewWaveshaper creates a waveshaper. Without options it uses drive 0 and no
// oversampling.
func NewWaveshaper(opts ...WaveshaperOption) (*Waveshaper, error) {
	cfg := defaultWaveshaperConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	return &Waveshaper{
		drive:      cfg.drive,
		oversample: cfg.oversample,
		table:      WaveshaperCurve(cfg.drive, WaveshaperTableSize),
	}, nil
}

// WaveshaperCurve tabulates the transfer curve for drive k at n evenly spaced
// points covering [-1, 1].
func WaveshaperCurve(k float64, n int) []float64 {
	if n < 2 {
		n = 2
	}

	curve := make([]float64, n)
	deg := math.Pi / 180

	for i := range curve {
		x := 2*float64(i)/float64(n-1) - 1
		curve[i] = (3 + k) * x * 20 * deg / (math.Pi + k*math.Abs(x))
	}

	return curve
}

// Drive returns the curve drive amount.
func (w *Waveshaper) Drive() float64 { return w.drive }

// Oversample returns the oversampling factor.
func (w *Waveshaper) Oversample() int { return w.oversample }

// Reset clears the interpolation history.
func (w *Waveshaper) Reset() {
	w.prev = 0
}

// ProcessSample processes one sample. NaN is treated as silence.
func (w *Waveshaper) ProcessSample(input float64) float64 {
	if math.IsNaN(input) {
		input = 0
	}

	if w.oversample <= 1 {
		w.prev = input
		return w.lookup(input)
	}

	n := float64(w.oversample)
	step := (input - w.prev) / n
	sum := 0.0

	for j := 1; j <= w.oversample; j++ {
		sum += w.lookup(w.prev + step*float64(j))
	}

	w.prev = input

	return sum / n
}

// ProcessInPlace shapes buf in place.
func (w *Waveshaper) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = w.ProcessSample(buf[i])
	}
}

func (w *Waveshaper) lookup(x float64) float64 {
	// NaN survives Clamp and would index the table at MinInt.
	if math.IsNaN(x) {
		x = 0
	}
	x = core.Clamp(x, -1, 1)

	last := len(w.table) - 1
	pos := (x + 1) * 0.5 * float64(last)
	i := int(pos)

	if i >= last {
		return w.table[last]
	}

	frac := pos - float64(i)

	return w.table[i] + frac*(w.table[i+1]-w.table[i])
}

func validOversample(factor int) bool {
	return factor == 1 || factor == 2 || factor == 4
}
