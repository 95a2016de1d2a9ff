package design

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/filter/biquad"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestBiquadDesigners_BasicResponseShape(t *testing.T) {
	sr := 48000.0
	f := 1000.0
	q := 1 / math.Sqrt2

	lp := mustDesign(t)(Lowpass(f, q, sr))
	if !(mag(lp, 100, sr) > mag(lp, 10000, sr)) {
		t.Fatal("lowpass shape check failed")
	}
	if !almostEqual(lp.MagnitudeDB(f, sr), -3.0103, 1e-3) {
		t.Fatalf("lowpass at cutoff = %v dB, want -3.01", lp.MagnitudeDB(f, sr))
	}

	hp := mustDesign(t)(Highpass(f, q, sr))
	if !(mag(hp, 10000, sr) > mag(hp, 100, sr)) {
		t.Fatal("highpass shape check failed")
	}

	bp := mustDesign(t)(Bandpass(f, q, sr))
	if !(mag(bp, f, sr) > mag(bp, 100, sr) && mag(bp, f, sr) > mag(bp, 10000, sr)) {
		t.Fatal("bandpass shape check failed")
	}
	if !almostEqual(mag(bp, f, sr), 1, 1e-9) {
		t.Fatalf("bandpass peak gain = %v, want 1", mag(bp, f, sr))
	}
}

func TestEQDesigners_BasicBehavior(t *testing.T) {
	sr := 48000.0
	f := 1000.0

	peakUp := mustDesign(t)(Peak(f, 6, 1, sr))
	peakDown := mustDesign(t)(Peak(f, -6, 1, sr))
	if !almostEqual(peakUp.MagnitudeDB(f, sr), 6, 1e-9) {
		t.Fatalf("peak +6 at centre = %v dB", peakUp.MagnitudeDB(f, sr))
	}
	if !almostEqual(peakDown.MagnitudeDB(f, sr), -6, 1e-9) {
		t.Fatalf("peak -6 at centre = %v dB", peakDown.MagnitudeDB(f, sr))
	}

	ls := mustDesign(t)(LowShelf(500, 6, sr))
	if !(mag(ls, 50, sr) > mag(ls, 10000, sr)) {
		t.Fatal("low shelf tilt check failed")
	}
	if !almostEqual(ls.MagnitudeDB(500, sr), 3, 1e-9) {
		t.Fatalf("low shelf at corner = %v dB, want 3", ls.MagnitudeDB(500, sr))
	}

	hs := mustDesign(t)(HighShelf(4000, 6, sr))
	if !(mag(hs, 20000, sr) > mag(hs, 100, sr)) {
		t.Fatal("high shelf tilt check failed")
	}
	if !almostEqual(hs.MagnitudeDB(4000, sr), 3, 1e-9) {
		t.Fatalf("high shelf at corner = %v dB, want 3", hs.MagnitudeDB(4000, sr))
	}
}

func TestZeroGainIsIdentity(t *testing.T) {
	sr := 44100.0
	for name, c := range map[string]biquad.Coefficients{
		"peak":      mustDesign(t)(Peak(1000, 0, 2, sr)),
		"lowshelf":  mustDesign(t)(LowShelf(200, 0, sr)),
		"highshelf": mustDesign(t)(HighShelf(6000, 0, sr)),
	} {
		for _, hz := range []float64{20, 200, 2000, 20000} {
			if !almostEqual(mag(c, hz, sr), 1, 1e-12) {
				t.Fatalf("%s at %v Hz = %v, want 1", name, hz, mag(c, hz, sr))
			}
		}
	}
}

func TestDesigners_ValidateAcrossSampleRates(t *testing.T) {
	for _, sr := range []float64{8000, 22050, 44100, 48000, 96000, 192000} {
		for _, c := range []biquad.Coefficients{
			mustDesign(t)(Lowpass(1000, 0.707, sr)),
			mustDesign(t)(Highpass(1000, 0.707, sr)),
			mustDesign(t)(Bandpass(1000, 1.2, sr)),
			mustDesign(t)(Peak(1000, 3, 1.0, sr)),
			mustDesign(t)(LowShelf(300, 6, sr)),
			mustDesign(t)(HighShelf(3000, -6, sr)),
		} {
			assertFiniteCoefficients(t, c)
			assertStableSection(t, c)
		}
	}
}

func TestInvalidInputs(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name string
		fn   func() (biquad.Coefficients, error)
	}{
		{"zero freq", func() (biquad.Coefficients, error) { return Lowpass(0, 0.7, 48000) }},
		{"negative freq", func() (biquad.Coefficients, error) { return Highpass(-10, 0.7, 48000) }},
		{"at nyquist", func() (biquad.Coefficients, error) { return Lowpass(24000, 0.7, 48000) }},
		{"above nyquist", func() (biquad.Coefficients, error) { return LowShelf(30000, 3, 48000) }},
		{"nan freq", func() (biquad.Coefficients, error) { return Peak(nan, 3, 1, 48000) }},
		{"zero sample rate", func() (biquad.Coefficients, error) { return Bandpass(1000, 1, 0) }},
		{"inf sample rate", func() (biquad.Coefficients, error) { return Bandpass(1000, 1, inf) }},
		{"zero q", func() (biquad.Coefficients, error) { return Peak(1000, 3, 0, 48000) }},
		{"negative q", func() (biquad.Coefficients, error) { return Lowpass(1000, -1, 48000) }},
		{"nan gain", func() (biquad.Coefficients, error) { return HighShelf(1000, nan, 48000) }},
		{"inf gain", func() (biquad.Coefficients, error) { return Peak(1000, inf, 1, 48000) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.fn()
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
			if c != (biquad.Coefficients{}) {
				t.Fatalf("expected zero coefficients on error, got %#v", c)
			}
		})
	}
}

func mustDesign(t *testing.T) func(biquad.Coefficients, error) biquad.Coefficients {
	t.Helper()
	return func(c biquad.Coefficients, err error) biquad.Coefficients {
		t.Helper()
		if err != nil {
			t.Fatalf("design failed: %v", err)
		}
		return c
	}
}

func mag(c biquad.Coefficients, freq, sr float64) float64 {
	h := c.Response(freq, sr)
	return cmplx.Abs(h)
}

func assertFiniteCoefficients(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	v := []float64{c.B0, c.B1, c.B2, c.A1, c.A2}
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			t.Fatalf("invalid coefficient[%d]=%v", i, v[i])
		}
	}
}

func assertStableSection(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	r1, r2 := sectionRoots(c)
	if cmplx.Abs(r1) >= 1+tol || cmplx.Abs(r2) >= 1+tol {
		t.Fatalf("unstable poles: |r1|=%v |r2|=%v coeff=%#v", cmplx.Abs(r1), cmplx.Abs(r2), c)
	}
}

func sectionRoots(c biquad.Coefficients) (complex128, complex128) {
	disc := complex(c.A1*c.A1-4*c.A2, 0)
	sqrtDisc := cmplx.Sqrt(disc)
	r1 := (-complex(c.A1, 0) + sqrtDisc) / 2
	r2 := (-complex(c.A1, 0) - sqrtDisc) / 2
	return r1, r2
}
