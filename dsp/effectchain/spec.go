package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/effects"
	"github.com/cwbudde/algo-enhance/dsp/effects/dynamics"
	"github.com/cwbudde/algo-enhance/dsp/filter/biquad"
	"github.com/cwbudde/algo-enhance/dsp/filter/design"
)

// Stage kinds as used in JSON nodes and the registry.
const (
	KindFilter     = "filter"
	KindCompressor = "compressor"
	KindWaveshaper = "waveshaper"
	KindGain       = "gain"
	KindPan        = "pan"
	KindNormalize  = "normalize"
)

// DefaultNormalizeTargetDB is the peak target used when none is given.
const DefaultNormalizeTargetDB = -3.0

// StageSpec is a data-only description of one stage. The set of
// implementations is closed: FilterSpec, CompressorSpec, WaveshaperSpec,
// GainSpec, PanSpec and NormalizeSpec.
type StageSpec interface {
	// Kind returns the registry name of the stage.
	Kind() string
	// Validate checks every field against its domain for the given sample
	// rate. It never clamps.
	Validate(sampleRate float64) error
	// Build turns the spec into a live stage for the given channel count.
	Build(ctx Context, channels int) (Stage, error)

	isStageSpec()
}

// FilterKind selects the biquad response.
type FilterKind string

// Supported filter kinds.
const (
	FilterLowShelf  FilterKind = "lowshelf"
	FilterHighShelf FilterKind = "highshelf"
	FilterPeaking   FilterKind = "peaking"
	FilterLowpass   FilterKind = "lowpass"
	FilterHighpass  FilterKind = "highpass"
	FilterBandpass  FilterKind = "bandpass"
)

// FilterSpec describes an RBJ biquad. Q is ignored for shelves (slope 1);
// GainDB is ignored for lowpass, highpass and bandpass.
type FilterSpec struct {
	Type        FilterKind `json:"kind"`
	FrequencyHz float64    `json:"frequency"`
	Q           float64    `json:"q,omitempty"`
	GainDB      float64    `json:"gain,omitempty"`
}

// CompressorSpec describes a feed-forward soft-knee compressor.
type CompressorSpec struct {
	ThresholdDB    float64 `json:"threshold"`
	KneeDB         float64 `json:"knee"`
	Ratio          float64 `json:"ratio"`
	AttackSeconds  float64 `json:"attack"`
	ReleaseSeconds float64 `json:"release"`
}

// WaveshaperSpec describes a tabulated saturation curve.
type WaveshaperSpec struct {
	Drive      float64 `json:"drive"`
	Oversample int     `json:"oversample"`
}

// GainSpec is a constant gain, or an exponential ramp from FromDB to GainDB
// over the first RampSeconds of the buffer when RampSeconds > 0.
type GainSpec struct {
	GainDB      float64 `json:"gain"`
	FromDB      float64 `json:"from,omitempty"`
	RampSeconds float64 `json:"ramp,omitempty"`
}

// PanSpec describes an equal-power stereo pan in [-1, 1].
type PanSpec struct {
	Pan float64 `json:"pan"`
}

// NormalizeSpec describes two-pass peak normalization to TargetDB dBFS.
type NormalizeSpec struct {
	TargetDB float64 `json:"target"`
}

func (FilterSpec) isStageSpec()     {}
func (CompressorSpec) isStageSpec() {}
func (WaveshaperSpec) isStageSpec() {}
func (GainSpec) isStageSpec()       {}
func (PanSpec) isStageSpec()        {}
func (NormalizeSpec) isStageSpec()  {}

// Kind implements StageSpec.
func (FilterSpec) Kind() string { return KindFilter }

// Kind implements StageSpec.
func (CompressorSpec) Kind() string { return KindCompressor }

// Kind implements StageSpec.
func (WaveshaperSpec) Kind() string { return KindWaveshaper }

// Kind implements StageSpec.
func (GainSpec) Kind() string { return KindGain }

// Kind implements StageSpec.
func (PanSpec) Kind() string { return KindPan }

// Kind implements StageSpec.
func (NormalizeSpec) Kind() string { return KindNormalize }

// Filter returns a FilterSpec of the given kind.
func Filter(kind FilterKind, freq, q, gainDB float64) FilterSpec {
	return FilterSpec{Type: kind, FrequencyHz: freq, Q: q, GainDB: gainDB}
}

// Normalize returns a NormalizeSpec with the default -3 dBFS target.
func Normalize() NormalizeSpec {
	return NormalizeSpec{TargetDB: DefaultNormalizeTargetDB}
}

// Design computes the biquad coefficients at sampleRate.
func (s FilterSpec) Design(sampleRate float64) (biquad.Coefficients, error) {
	var (
		c   biquad.Coefficients
		err error
	)

	switch s.Type {
	case FilterLowShelf:
		c, err = design.LowShelf(s.FrequencyHz, s.GainDB, sampleRate)
	case FilterHighShelf:
		c, err = design.HighShelf(s.FrequencyHz, s.GainDB, sampleRate)
	case FilterPeaking:
		c, err = design.Peak(s.FrequencyHz, s.GainDB, s.Q, sampleRate)
	case FilterLowpass:
		c, err = design.Lowpass(s.FrequencyHz, s.Q, sampleRate)
	case FilterHighpass:
		c, err = design.Highpass(s.FrequencyHz, s.Q, sampleRate)
	case FilterBandpass:
		c, err = design.Bandpass(s.FrequencyHz, s.Q, sampleRate)
	default:
		return biquad.Coefficients{}, fmt.Errorf("effectchain: %w",
			core.InvalidParameter("filter kind", string(s.Type), "unknown"))
	}

	if err != nil {
		return biquad.Coefficients{}, fmt.Errorf("effectchain: %s filter: %w", s.Type, err)
	}

	return c, nil
}

// Validate implements StageSpec.
func (s FilterSpec) Validate(sampleRate float64) error {
	_, err := s.Design(sampleRate)
	return err
}

// Build implements StageSpec.
func (s FilterSpec) Build(ctx Context, channels int) (Stage, error) {
	c, err := s.Design(ctx.SampleRate)
	if err != nil {
		return nil, err
	}

	f, err := biquad.NewFilter(c, channels)
	if err != nil {
		return nil, fmt.Errorf("effectchain: %w", err)
	}

	return &filterStage{filter: f}, nil
}

// Validate implements StageSpec.
func (s CompressorSpec) Validate(sampleRate float64) error {
	_, err := s.newCompressor(sampleRate)
	return err
}

// Build implements StageSpec.
func (s CompressorSpec) Build(ctx Context, channels int) (Stage, error) {
	if err := checkBuildChannels(channels); err != nil {
		return nil, err
	}

	st := &compressorStage{comps: make([]*dynamics.Compressor, channels)}
	for ch := range st.comps {
		c, err := s.newCompressor(ctx.SampleRate)
		if err != nil {
			return nil, err
		}
		st.comps[ch] = c
	}

	return st, nil
}

// Validate implements StageSpec.
func (s WaveshaperSpec) Validate(_ float64) error {
	_, err := s.newWaveshaper()
	return err
}

// Build implements StageSpec.
func (s WaveshaperSpec) Build(_ Context, channels int) (Stage, error) {
	if err := checkBuildChannels(channels); err != nil {
		return nil, err
	}

	st := &waveshaperStage{shapers: make([]*effects.Waveshaper, channels)}
	for ch := range st.shapers {
		w, err := s.newWaveshaper()
		if err != nil {
			return nil, err
		}
		st.shapers[ch] = w
	}

	return st, nil
}

// Validate implements StageSpec.
func (s GainSpec) Validate(_ float64) error {
	if !core.IsFinite(s.GainDB) {
		return fmt.Errorf("effectchain: %w", core.InvalidParameter("gain", s.GainDB, "must be finite"))
	}
	if !core.IsFinite(s.FromDB) {
		return fmt.Errorf("effectchain: %w", core.InvalidParameter("gain ramp start", s.FromDB, "must be finite"))
	}
	if s.RampSeconds < 0 || !core.IsFinite(s.RampSeconds) {
		return fmt.Errorf("effectchain: %w", core.InvalidParameter("gain ramp", s.RampSeconds, "must be >= 0 s"))
	}

	return nil
}

// Build implements StageSpec.
func (s GainSpec) Build(ctx Context, channels int) (Stage, error) {
	if err := s.Validate(ctx.SampleRate); err != nil {
		return nil, err
	}
	if err := checkBuildChannels(channels); err != nil {
		return nil, err
	}

	frames := int(math.Round(s.RampSeconds * ctx.SampleRate))

	return newGainStage(s.FromDB, s.GainDB, frames, channels, ctx.BlockSize)
}

// Validate implements StageSpec.
func (s PanSpec) Validate(_ float64) error {
	if s.Pan < -1 || s.Pan > 1 || !core.IsFinite(s.Pan) {
		return fmt.Errorf("effectchain: %w", core.InvalidParameter("pan", s.Pan, "must be in [-1, 1]"))
	}

	return nil
}

// Build implements StageSpec.
func (s PanSpec) Build(_ Context, channels int) (Stage, error) {
	if err := s.Validate(0); err != nil {
		return nil, err
	}
	if err := checkBuildChannels(channels); err != nil {
		return nil, err
	}

	return newPanStage(s.Pan, channels)
}

// Validate implements StageSpec.
func (s NormalizeSpec) Validate(_ float64) error {
	if s.TargetDB > 0 || !core.IsFinite(s.TargetDB) {
		return fmt.Errorf("effectchain: %w", core.InvalidParameter("normalize target", s.TargetDB, "must be <= 0 dBFS"))
	}

	return nil
}

// Build implements StageSpec.
func (s NormalizeSpec) Build(_ Context, channels int) (Stage, error) {
	if err := s.Validate(0); err != nil {
		return nil, err
	}
	if err := checkBuildChannels(channels); err != nil {
		return nil, err
	}

	return NewNormalizer(s.TargetDB, channels), nil
}

func checkBuildChannels(channels int) error {
	if channels <= 0 {
		return fmt.Errorf("effectchain: %w", core.InvalidParameter("channels", channels, "must be >= 1"))
	}

	return nil
}
