package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/internal/testutil"
)

func TestToneAmplitude(t *testing.T) {
	tests := []struct {
		name      string
		freq      float64
		amplitude float64
	}{
		{"100 Hz", 100, 0.8},
		{"1 kHz", 1000, 0.25},
		{"10 kHz", 10000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 4800 samples at 48 kHz hold a whole number of cycles of each tone.
			x := testutil.Sine(tt.freq, 48000, tt.amplitude, 4800)

			got, err := ToneAmplitude(x, tt.freq, 48000)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.amplitude) > 1e-9 {
				t.Fatalf("ToneAmplitude() = %v, want %v", got, tt.amplitude)
			}
		})
	}
}

func TestGoertzelRejectsOtherTone(t *testing.T) {
	x := testutil.Sine(1000, 48000, 1, 4800)

	got, err := ToneAmplitude(x, 2000, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if got > 1e-9 {
		t.Fatalf("off-bin amplitude = %v, want ~0", got)
	}
}

func TestGoertzelBlocksAccumulate(t *testing.T) {
	x := testutil.Sine(500, 8000, 0.5, 800)

	g, err := NewGoertzel(500, 8000)
	if err != nil {
		t.Fatal(err)
	}

	g.ProcessBlock(x[:300])
	g.ProcessBlock(x[300:])
	split := g.Power()

	g.Reset()
	if g.Power() != 0 || g.Amplitude() != 0 {
		t.Fatal("Reset did not clear state")
	}

	g.ProcessBlock(x)
	if math.Abs(g.Power()-split) > 1e-9*split {
		t.Fatalf("split power %v != whole power %v", split, g.Power())
	}
	if g.Frequency() != 500 {
		t.Fatalf("Frequency() = %v", g.Frequency())
	}
}

func TestNewGoertzelValidation(t *testing.T) {
	tests := []struct {
		freq, sr float64
	}{
		{-1, 48000},
		{24001, 48000},
		{math.NaN(), 48000},
		{100, 0},
		{100, math.Inf(1)},
	}

	for _, tt := range tests {
		if _, err := NewGoertzel(tt.freq, tt.sr); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("NewGoertzel(%v, %v) = %v, want ErrInvalidParameter", tt.freq, tt.sr, err)
		}
	}
}
