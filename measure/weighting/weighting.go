// Package weighting measures frequency-weighted levels per IEC 61672.
//
// A-weighting follows the 40-phon equal-loudness contour and is the usual
// figure for hiss and hum left after noise reduction. C-weighting is nearly
// flat and Z-weighting is flat. Each curve is a cascade of bilinear
// transformed first and second order sections normalized to 0 dB at 1 kHz.
package weighting

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/filter/biquad"
)

// IEC 61672 analog pole frequencies in Hz.
const (
	f1 = 20.598997 // double
	f2 = 107.65265
	f4 = 737.86223
	f5 = 12194.217 // double
)

const referenceHz = 1000.0

// Curve selects a weighting curve.
type Curve int

const (
	CurveA Curve = iota
	CurveC
	CurveZ
)

func (c Curve) String() string {
	switch c {
	case CurveA:
		return "A"
	case CurveC:
		return "C"
	case CurveZ:
		return "Z"
	default:
		return fmt.Sprintf("Curve(%d)", int(c))
	}
}

// ParseCurve maps "A", "C" or "Z" (either case) to a Curve.
func ParseCurve(name string) (Curve, error) {
	switch name {
	case "A", "a":
		return CurveA, nil
	case "C", "c":
		return CurveC, nil
	case "Z", "z":
		return CurveZ, nil
	default:
		return 0, core.InvalidParameter("weighting", name, "must be A, C or Z")
	}
}

// Weighting is a designed curve at one sample rate.
type Weighting struct {
	curve      Curve
	sampleRate float64
	coeffs     []biquad.Coefficients
	gain       float64
}

// New designs c at sampleRate. The f5 low-pass poles are left out when they
// lie at or above Nyquist.
func New(c Curve, sampleRate float64) (*Weighting, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.InvalidParameter("sample rate", sampleRate, "must be > 0")
	}

	var coeffs []biquad.Coefficients

	switch c {
	case CurveA:
		coeffs = []biquad.Coefficients{
			hpSecondOrder(f1, sampleRate),
			hpFirstOrder(f2, sampleRate),
			hpFirstOrder(f4, sampleRate),
		}
	case CurveC:
		coeffs = []biquad.Coefficients{hpSecondOrder(f1, sampleRate)}
	case CurveZ:
		return &Weighting{curve: c, sampleRate: sampleRate, gain: 1}, nil
	default:
		return nil, core.InvalidParameter("weighting", c, "unknown curve")
	}

	if f5 < sampleRate/2 {
		lp := lpFirstOrder(f5, sampleRate)
		coeffs = append(coeffs, lp, lp)
	}

	h := complex(1, 0)
	for i := range coeffs {
		h *= coeffs[i].Response(referenceHz, sampleRate)
	}

	return &Weighting{
		curve:      c,
		sampleRate: sampleRate,
		coeffs:     coeffs,
		gain:       1 / cmplx.Abs(h),
	}, nil
}

// Curve returns the designed curve.
func (w *Weighting) Curve() Curve { return w.curve }

// Sections returns the number of biquad sections in the cascade.
func (w *Weighting) Sections() int { return len(w.coeffs) }

// MagnitudeDB returns the cascade's magnitude response at freqHz.
func (w *Weighting) MagnitudeDB(freqHz float64) float64 {
	db := core.LinearToDB(w.gain)
	for i := range w.coeffs {
		db += w.coeffs[i].MagnitudeDB(freqHz, w.sampleRate)
	}

	return db
}

// Apply returns a weighted copy of samples, starting from rest.
func (w *Weighting) Apply(samples []float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)

	for _, c := range w.coeffs {
		biquad.NewSection(c).ProcessBlock(out)
	}

	if w.gain != 1 {
		for i := range out {
			out[i] *= w.gain
		}
	}

	return out
}

// LevelDB returns the weighted RMS level of buf in dB relative to full
// scale, with channel powers averaged. Silence reports -Inf.
func LevelDB(buf *buffer.Buffer, c Curve) (float64, error) {
	if buf == nil {
		return 0, fmt.Errorf("weighting: %w: nil buffer", core.ErrInvalidInput)
	}

	w, err := New(c, float64(buf.SampleRate()))
	if err != nil {
		return 0, err
	}

	frames := buf.Frames()
	if frames == 0 {
		return math.Inf(-1), nil
	}

	power := 0.0
	for _, samples := range buf.Channels() {
		for _, v := range w.Apply(samples) {
			power += v * v
		}
	}

	return core.LinearPowerToDB(power / float64(frames*buf.NumChannels())), nil
}

// hpSecondOrder is s²/(s+ω)² through the bilinear transform with
// K = tan(πf/sr).
func hpSecondOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	k2 := k * k
	d := 1 + 2*k + k2

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -2 / d,
		B2: 1 / d,
		A1: 2 * (k2 - 1) / d,
		A2: (1 - 2*k + k2) / d,
	}
}

// hpFirstOrder is s/(s+ω).
func hpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -1 / d,
		A1: (k - 1) / d,
	}
}

// lpFirstOrder is ω/(s+ω).
func lpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: k / d,
		B1: k / d,
		A1: (k - 1) / d,
	}
}
