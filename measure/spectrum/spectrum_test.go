package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/internal/testutil"
)

const (
	testSR   = 48000.0
	testN    = 4096
	testBin  = 100
	testFreq = testBin * testSR / testN
)

func TestAnalyzeBinCentredTone(t *testing.T) {
	for _, w := range []Window{WindowHann, WindowRectangular, WindowHamming, WindowBlackman} {
		t.Run(w.String(), func(t *testing.T) {
			x := testutil.Sine(testFreq, testSR, 0.5, 4*testN)

			s, err := Analyze(x, testSR, WithFFTSize(testN), WithWindow(w))
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			if s.Frames != 7 {
				t.Fatalf("Frames = %d, want 7", s.Frames)
			}
			if got := s.Magnitudes[testBin]; math.Abs(got-0.5) > 1e-9 {
				t.Fatalf("bin magnitude = %v, want 0.5", got)
			}

			f, m := s.Peak()
			if f != testFreq || math.Abs(m-0.5) > 1e-9 {
				t.Fatalf("Peak() = (%v, %v), want (%v, 0.5)", f, m, testFreq)
			}
		})
	}
}

func TestBandLevelMatchesToneRMS(t *testing.T) {
	x := testutil.Sine(testFreq, testSR, 0.5, 2*testN)

	s, err := Analyze(x, testSR, WithFFTSize(testN))
	if err != nil {
		t.Fatal(err)
	}

	lo := s.Frequency(testBin - 1)
	hi := s.Frequency(testBin + 1)
	want := core.LinearPowerToDB(0.125)

	if got := s.BandLevelDB(lo, hi); math.Abs(got-want) > 1e-9 {
		t.Fatalf("BandLevelDB() = %v, want %v", got, want)
	}
}

func TestAnalyzeDC(t *testing.T) {
	s, err := Analyze(testutil.DC(0.25, 1024), 8000, WithFFTSize(1024), WithWindow(WindowRectangular))
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(s.Magnitudes[0]-0.25) > 1e-12 {
		t.Fatalf("DC magnitude = %v, want 0.25", s.Magnitudes[0])
	}
	for k := 1; k < len(s.Magnitudes); k++ {
		if s.Magnitudes[k] > 1e-12 {
			t.Fatalf("bin %d = %v, want 0", k, s.Magnitudes[k])
		}
	}
}

func TestAnalyzeShortInputIsPadded(t *testing.T) {
	s, err := Analyze([]float64{1, 0, 0}, 1000, WithFFTSize(16))
	if err != nil {
		t.Fatal(err)
	}

	if s.Frames != 1 || len(s.Magnitudes) != 9 {
		t.Fatalf("Frames = %d, bins = %d", s.Frames, len(s.Magnitudes))
	}

	empty, err := Analyze(nil, 1000, WithFFTSize(16))
	if err != nil {
		t.Fatal(err)
	}
	for k, m := range empty.Magnitudes {
		if m != 0 {
			t.Fatalf("empty input bin %d = %v", k, m)
		}
	}
}

func TestAnalyzerRejectsBadConfig(t *testing.T) {
	for _, n := range []int{0, 8, 1000, -16} {
		if _, err := NewAnalyzer(WithFFTSize(n)); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("NewAnalyzer(%d) = %v, want ErrInvalidParameter", n, err)
		}
	}

	a, err := NewAnalyzer(WithFFTSize(64))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(make([]float64, 64), 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Analyze(sr=0) = %v, want ErrInvalidParameter", err)
	}
}

func TestAnalyzeBufferAveragesChannels(t *testing.T) {
	tone := testutil.Sine(testFreq, testSR, 0.5, testN)
	silent := make([]float64, testN)

	buf, err := buffer.FromChannels([][]float64{tone, silent}, int(testSR))
	if err != nil {
		t.Fatal(err)
	}

	s, err := AnalyzeBuffer(buf, WithFFTSize(testN))
	if err != nil {
		t.Fatal(err)
	}

	if got := s.MagnitudeAt(testFreq); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("MagnitudeAt() = %v, want 0.25", got)
	}
}

func TestMagnitudeAtInterpolates(t *testing.T) {
	s := &Spectrum{SampleRate: 8, FFTSize: 8, Magnitudes: []float64{0, 1, 3, 5, 7}}

	tests := []struct {
		f, want float64
	}{
		{-1, 0},
		{0.5, 0.5},
		{1.25, 1.5},
		{4, 7},
		{100, 7},
	}
	for _, tt := range tests {
		if got := s.MagnitudeAt(tt.f); got != tt.want {
			t.Errorf("MagnitudeAt(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}

	if got := s.Bin(2.6); got != 3 {
		t.Fatalf("Bin(2.6) = %d, want 3", got)
	}
}

func TestWindowCoefficients(t *testing.T) {
	hann := WindowHann.Coefficients(8)
	if hann[0] != 0 || math.Abs(hann[4]-1) > 1e-15 {
		t.Fatalf("hann = %v", hann)
	}
	if got := CoherentGain(hann); math.Abs(got-0.5) > 1e-15 {
		t.Fatalf("CoherentGain(hann) = %v, want 0.5", got)
	}
	if got := ENBW(WindowHann.Coefficients(1024)); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("ENBW(hann) = %v, want 1.5", got)
	}
	if got := ENBW(WindowRectangular.Coefficients(16)); got != 1 {
		t.Fatalf("ENBW(rect) = %v, want 1", got)
	}
	if WindowBlackman.Coefficients(0) != nil {
		t.Fatal("zero length window not nil")
	}
}

func TestParseWindow(t *testing.T) {
	for _, w := range []Window{WindowHann, WindowRectangular, WindowHamming, WindowBlackman} {
		got, err := ParseWindow(w.String())
		if err != nil || got != w {
			t.Errorf("ParseWindow(%q) = %v, %v", w.String(), got, err)
		}
	}

	if _, err := ParseWindow("kaiser"); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ParseWindow(kaiser) = %v", err)
	}
}
