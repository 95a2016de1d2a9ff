package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Window selects the analysis taper applied before the FFT.
type Window int

const (
	WindowHann Window = iota
	WindowRectangular
	WindowHamming
	WindowBlackman
)

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// String returns the window name.
func (w Window) String() string {
	switch w {
	case WindowHann:
		return "hann"
	case WindowRectangular:
		return "rectangular"
	case WindowHamming:
		return "hamming"
	case WindowBlackman:
		return "blackman"
	default:
		return fmt.Sprintf("Window(%d)", int(w))
	}
}

// ParseWindow maps a window name to a Window.
func ParseWindow(name string) (Window, error) {
	for _, w := range []Window{WindowHann, WindowRectangular, WindowHamming, WindowBlackman} {
		if w.String() == name {
			return w, nil
		}
	}

	return 0, fmt.Errorf("spectrum: %w", core.InvalidParameter("window", name, "unknown"))
}

// Coefficients returns the periodic form of w with the given length, which
// is the form that tiles without overlap error in FFT framing.
func (w Window) Coefficients(length int) []float64 {
	if length <= 0 {
		return nil
	}

	var terms []float64

	switch w {
	case WindowHann:
		terms = hannCoeffs
	case WindowHamming:
		terms = hammingCoeffs
	case WindowBlackman:
		terms = blackmanCoeffs
	default:
		out := make([]float64, length)
		for i := range out {
			out[i] = 1
		}

		return out
	}

	out := make([]float64, length)
	for i := range out {
		x := float64(i) / float64(length)
		out[i] = cosineSum(x, terms)
	}

	return out
}

// CoherentGain returns sum(w)/N, the amplitude correction for a windowed
// sinusoid.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}

// ENBW returns the equivalent noise bandwidth of coeffs in bins.
func ENBW(coeffs []float64) float64 {
	sum, sumSq := 0.0, 0.0
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}

	if sum == 0 {
		return 0
	}

	return float64(len(coeffs)) * sumSq / (sum * sum)
}

// applyWindow writes src*coeffs into dst. All slices must have equal length.
func applyWindow(dst, src, coeffs []float64) {
	vecmath.MulBlock(dst, src, coeffs)
}

func cosineSum(x float64, terms []float64) float64 {
	v := 0.0
	for k, a := range terms {
		v += a * math.Cos(2*math.Pi*float64(k)*x)
	}

	return v
}
