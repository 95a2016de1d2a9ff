package effectchain

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

func TestSpecKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec StageSpec
		want string
	}{
		{FilterSpec{}, KindFilter},
		{CompressorSpec{}, KindCompressor},
		{WaveshaperSpec{}, KindWaveshaper},
		{GainSpec{}, KindGain},
		{PanSpec{}, KindPan},
		{NormalizeSpec{}, KindNormalize},
	}

	for _, tt := range tests {
		if got := tt.spec.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestSpecValidate(t *testing.T) {
	t.Parallel()

	const sr = 44100.0

	nan := math.NaN()
	inf := math.Inf(1)
	comp := CompressorSpec{ThresholdDB: -20, KneeDB: 6, Ratio: 4, AttackSeconds: 0.003, ReleaseSeconds: 0.25}

	tests := []struct {
		name    string
		spec    StageSpec
		wantErr bool
	}{
		{"lowshelf ok", Filter(FilterLowShelf, 200, 0, 6), false},
		{"highshelf ok", Filter(FilterHighShelf, 7000, 0, -3), false},
		{"peaking ok", Filter(FilterPeaking, 1000, 1, 3), false},
		{"lowpass ok", Filter(FilterLowpass, 5000, 0.7, 0), false},
		{"highpass ok", Filter(FilterHighpass, 80, 0.7, 0), false},
		{"bandpass ok", Filter(FilterBandpass, 1000, 2, 0), false},
		{"filter at nyquist", Filter(FilterLowpass, 22050, 0.7, 0), true},
		{"filter above nyquist", Filter(FilterHighShelf, 30000, 0, 3), true},
		{"filter negative freq", Filter(FilterHighpass, -10, 0.7, 0), true},
		{"filter zero q", Filter(FilterPeaking, 1000, 0, 3), true},
		{"filter nan gain", Filter(FilterPeaking, 1000, 1, nan), true},
		{"filter unknown kind", Filter("notch", 1000, 1, 0), true},
		{"compressor ok", comp, false},
		{"compressor positive threshold", func() CompressorSpec { c := comp; c.ThresholdDB = 1; return c }(), true},
		{"compressor ratio below 1", func() CompressorSpec { c := comp; c.Ratio = 0.5; return c }(), true},
		{"compressor negative knee", func() CompressorSpec { c := comp; c.KneeDB = -1; return c }(), true},
		{"compressor zero attack", func() CompressorSpec { c := comp; c.AttackSeconds = 0; return c }(), true},
		{"compressor inf release", func() CompressorSpec { c := comp; c.ReleaseSeconds = inf; return c }(), true},
		{"waveshaper ok", WaveshaperSpec{Drive: 20, Oversample: 2}, false},
		{"waveshaper negative drive", WaveshaperSpec{Drive: -1, Oversample: 1}, true},
		{"waveshaper oversample 3", WaveshaperSpec{Drive: 1, Oversample: 3}, true},
		{"waveshaper oversample 0", WaveshaperSpec{Drive: 1}, true},
		{"gain ok", GainSpec{GainDB: -6}, false},
		{"gain ramp ok", GainSpec{GainDB: 0, FromDB: -60, RampSeconds: 0.5}, false},
		{"gain nan", GainSpec{GainDB: nan}, true},
		{"gain negative ramp", GainSpec{GainDB: 0, RampSeconds: -1}, true},
		{"pan ok", PanSpec{Pan: -1}, false},
		{"pan out of range", PanSpec{Pan: 1.01}, true},
		{"normalize ok", Normalize(), false},
		{"normalize 0 dBFS ok", NormalizeSpec{TargetDB: 0}, false},
		{"normalize positive", NormalizeSpec{TargetDB: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.spec.Validate(sr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr && !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("Validate() error = %v, want ErrInvalidParameter", err)
			}

			if tt.wantErr {
				if _, err := tt.spec.Build(Context{SampleRate: sr, BlockSize: 64}, 2); err == nil {
					t.Fatal("Build() accepted an invalid spec")
				}
			}
		})
	}
}

func TestFilterSpecValidatesAgainstSampleRate(t *testing.T) {
	t.Parallel()

	s := Filter(FilterLowpass, 7500, 0.7, 0)
	if err := s.Validate(44100); err != nil {
		t.Fatalf("Validate(44100) = %v", err)
	}

	if err := s.Validate(8000); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Validate(8000) = %v, want ErrInvalidParameter", err)
	}
}

func TestBuildRejectsZeroChannels(t *testing.T) {
	t.Parallel()

	ctx := NewContext(core.WithSampleRate(48000))
	for _, s := range []StageSpec{
		Filter(FilterPeaking, 1000, 1, 3),
		CompressorSpec{ThresholdDB: -20, Ratio: 2, AttackSeconds: 0.01, ReleaseSeconds: 0.1},
		WaveshaperSpec{Drive: 1, Oversample: 1},
		GainSpec{GainDB: 1},
		PanSpec{Pan: 0.5},
		Normalize(),
	} {
		if _, err := s.Build(ctx, 0); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("%s.Build(0 channels) = %v, want ErrInvalidParameter", s.Kind(), err)
		}
	}
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	ctx := NewContext(core.WithSampleRate(22050), core.WithBlockSize(256))
	if ctx.SampleRate != 22050 || ctx.BlockSize != 256 {
		t.Fatalf("NewContext() = %#v", ctx)
	}

	def := NewContext()
	if def.BlockSize != core.DefaultBlockSize {
		t.Fatalf("default block size = %d, want %d", def.BlockSize, core.DefaultBlockSize)
	}
}
