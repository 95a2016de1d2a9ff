package spectrum

import (
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// DefaultFFTSize is the frame length used when no size is configured.
const DefaultFFTSize = 4096

// Spectrum is a single-sided magnitude spectrum. Magnitudes are amplitude
// corrected, so a full-scale sinusoid centred on a bin reads 1.
type Spectrum struct {
	SampleRate float64
	FFTSize    int
	Window     Window
	// Frames is the number of averaged analysis frames.
	Frames int
	// ENBW is the window's equivalent noise bandwidth in bins.
	ENBW       float64
	Magnitudes []float64
}

type config struct {
	fftSize int
	window  Window
}

// Option configures an analysis.
type Option func(*config)

// WithFFTSize sets the frame length. It must be a power of two >= 16.
func WithFFTSize(n int) Option {
	return func(c *config) { c.fftSize = n }
}

// WithWindow sets the analysis taper.
func WithWindow(w Window) Option {
	return func(c *config) { c.window = w }
}

// Analyzer computes averaged magnitude spectra. It reuses its FFT plan and
// scratch buffers and is not safe for concurrent use.
type Analyzer struct {
	cfg    config
	plan   *algofft.Plan[complex128]
	coeffs []float64
	gain   float64
	enbw   float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	mag   []float64
}

// NewAnalyzer builds an analyzer for the given options.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	cfg := config{fftSize: DefaultFFTSize, window: WindowHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := cfg.fftSize
	if n < 16 || bits.OnesCount(uint(n)) != 1 {
		return nil, fmt.Errorf("spectrum: %w", core.InvalidParameter("fft size", n, "must be a power of two >= 16"))
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	coeffs := cfg.window.Coefficients(n)
	bins := n/2 + 1

	return &Analyzer{
		cfg:    cfg,
		plan:   plan,
		coeffs: coeffs,
		gain:   CoherentGain(coeffs),
		enbw:   ENBW(coeffs),
		frame:  make([]float64, n),
		in:     make([]complex128, n),
		out:    make([]complex128, n),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		mag:    make([]float64, bins),
	}, nil
}

// FFTSize returns the frame length.
func (a *Analyzer) FFTSize() int { return a.cfg.fftSize }

// Analyze averages the power of half-overlapping frames of samples and
// returns the resulting magnitude spectrum. Input shorter than one frame is
// zero padded.
func (a *Analyzer) Analyze(samples []float64, sampleRate float64) (*Spectrum, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("spectrum: %w", core.InvalidParameter("sample rate", sampleRate, "must be > 0"))
	}

	n := a.cfg.fftSize
	hop := n / 2
	bins := n/2 + 1
	power := make([]float64, bins)
	frames := 0

	for start := 0; frames == 0 || start+n <= len(samples); start += hop {
		clear(a.frame)
		copy(a.frame, samples[min(start, len(samples)):])

		if err := a.accumulate(power); err != nil {
			return nil, err
		}

		frames++
	}

	mags := make([]float64, bins)
	for k, p := range power {
		mags[k] = math.Sqrt(p / float64(frames))
	}

	return &Spectrum{
		SampleRate: sampleRate,
		FFTSize:    n,
		Window:     a.cfg.window,
		Frames:     frames,
		ENBW:       a.enbw,
		Magnitudes: mags,
	}, nil
}

// accumulate adds the amplitude-normalized power of a.frame into power.
func (a *Analyzer) accumulate(power []float64) error {
	n := a.cfg.fftSize

	applyWindow(a.frame, a.frame, a.coeffs)
	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("spectrum: fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	// Single-sided amplitude: 2|X|/(N*cg), except at DC and Nyquist.
	norm := 2 / (float64(n) * a.gain)
	for k, m := range a.mag {
		v := m * norm
		if k == 0 || k == len(a.mag)-1 {
			v /= 2
		}
		power[k] += v * v
	}

	return nil
}

// Analyze is a one-shot convenience wrapper around NewAnalyzer.
func Analyze(samples []float64, sampleRate float64, opts ...Option) (*Spectrum, error) {
	a, err := NewAnalyzer(opts...)
	if err != nil {
		return nil, err
	}

	return a.Analyze(samples, sampleRate)
}

// AnalyzeBuffer analyzes the mean of all channels of buf.
func AnalyzeBuffer(buf *buffer.Buffer, opts ...Option) (*Spectrum, error) {
	if buf == nil {
		return nil, fmt.Errorf("spectrum: %w: nil buffer", core.ErrInvalidInput)
	}

	mono := make([]float64, buf.Frames())
	for _, ch := range buf.Channels() {
		vecmath.AddBlockInPlace(mono, ch)
	}
	if buf.NumChannels() > 1 {
		vecmath.ScaleBlock(mono, mono, 1/float64(buf.NumChannels()))
	}

	return Analyze(mono, float64(buf.SampleRate()), opts...)
}

// BinHz returns the bin spacing in Hz.
func (s *Spectrum) BinHz() float64 {
	return s.SampleRate / float64(s.FFTSize)
}

// Frequency returns the centre frequency of bin k.
func (s *Spectrum) Frequency(k int) float64 {
	return float64(k) * s.BinHz()
}

// Bin returns the bin nearest to freqHz, clamped to the spectrum.
func (s *Spectrum) Bin(freqHz float64) int {
	k := int(math.Round(freqHz / s.BinHz()))
	return max(0, min(k, len(s.Magnitudes)-1))
}

// MagnitudeAt returns the magnitude at freqHz, linearly interpolated
// between neighbouring bins.
func (s *Spectrum) MagnitudeAt(freqHz float64) float64 {
	pos := freqHz / s.BinHz()
	last := len(s.Magnitudes) - 1

	switch {
	case pos <= 0:
		return s.Magnitudes[0]
	case pos >= float64(last):
		return s.Magnitudes[last]
	}

	k := int(pos)
	t := pos - float64(k)

	return s.Magnitudes[k] + t*(s.Magnitudes[k+1]-s.Magnitudes[k])
}

// MagnitudeDBAt returns MagnitudeAt in dBFS.
func (s *Spectrum) MagnitudeDBAt(freqHz float64) float64 {
	return core.LinearToDB(s.MagnitudeAt(freqHz))
}

// Peak returns the frequency and magnitude of the largest non-DC bin.
func (s *Spectrum) Peak() (freqHz, magnitude float64) {
	best := 1
	if len(s.Magnitudes) < 2 {
		best = 0
	}

	for k := best; k < len(s.Magnitudes); k++ {
		if s.Magnitudes[k] > s.Magnitudes[best] {
			best = k
		}
	}

	return s.Frequency(best), s.Magnitudes[best]
}

// BandLevelDB returns the RMS level in dBFS of the bins in [loHz, hiHz],
// corrected for the window's noise bandwidth.
func (s *Spectrum) BandLevelDB(loHz, hiHz float64) float64 {
	lo, hi := s.Bin(loHz), s.Bin(hiHz)
	if hi < lo {
		lo, hi = hi, lo
	}

	sum := 0.0
	for k := lo; k <= hi; k++ {
		sum += s.Magnitudes[k] * s.Magnitudes[k]
	}

	return core.LinearPowerToDB(sum / (2 * s.ENBW))
}
