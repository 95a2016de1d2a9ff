package effectchain

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Defaults applied when a node omits a parameter.
const (
	defaultFilterQ          = 1 / math.Sqrt2
	defaultCompThresholdDB  = -24.0
	defaultCompKneeDB       = 30.0
	defaultCompRatio        = 12.0
	defaultCompAttack       = 0.003
	defaultCompRelease      = 0.25
	defaultShaperOversample = 1
)

// DefaultRegistry returns a Registry pre-populated with all built-in stage
// decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(KindFilter, decodeFilter)
	r.MustRegister(KindCompressor, decodeCompressor)
	r.MustRegister(KindWaveshaper, decodeWaveshaper)
	r.MustRegister(KindGain, decodeGain)
	r.MustRegister(KindPan, decodePan)
	r.MustRegister(KindNormalize, decodeNormalize)

	return r
}

func decodeFilter(p Params) (StageSpec, error) {
	kind, err := normalizeFilterKind(p.GetStr("kind", ""))
	if err != nil {
		return nil, err
	}

	freq, err := p.RequireNum("frequency")
	if err != nil {
		return nil, err
	}

	q := defaultFilterQ
	if kind == FilterLowShelf || kind == FilterHighShelf {
		q = 0
	}

	return FilterSpec{
		Type:        kind,
		FrequencyHz: freq,
		Q:           p.GetNum("q", q),
		GainDB:      p.GetNum("gain", 0),
	}, nil
}

func decodeCompressor(p Params) (StageSpec, error) {
	return CompressorSpec{
		ThresholdDB:    p.GetNum("threshold", defaultCompThresholdDB),
		KneeDB:         p.GetNum("knee", defaultCompKneeDB),
		Ratio:          p.GetNum("ratio", defaultCompRatio),
		AttackSeconds:  p.GetNum("attack", defaultCompAttack),
		ReleaseSeconds: p.GetNum("release", defaultCompRelease),
	}, nil
}

func decodeWaveshaper(p Params) (StageSpec, error) {
	drive, err := p.RequireNum("drive")
	if err != nil {
		return nil, err
	}

	os, err := p.GetInt("oversample", defaultShaperOversample)
	if err != nil {
		return nil, err
	}

	return WaveshaperSpec{Drive: drive, Oversample: os}, nil
}

func decodeGain(p Params) (StageSpec, error) {
	gain, err := p.RequireNum("gain")
	if err != nil {
		return nil, err
	}

	return GainSpec{
		GainDB:      gain,
		FromDB:      p.GetNum("from", 0),
		RampSeconds: p.GetNum("ramp", 0),
	}, nil
}

func decodePan(p Params) (StageSpec, error) {
	pan, err := p.RequireNum("pan")
	if err != nil {
		return nil, err
	}

	return PanSpec{Pan: pan}, nil
}

func decodeNormalize(p Params) (StageSpec, error) {
	return NormalizeSpec{TargetDB: p.GetNum("target", DefaultNormalizeTargetDB)}, nil
}

// normalizeFilterKind maps a filter kind string and its common aliases onto
// a FilterKind. Unknown kinds are rejected.
func normalizeFilterKind(raw string) (FilterKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "peak", "bell", "band-eq", "bandeq":
		normalized = string(FilterPeaking)
	case "low-shelf", "bass":
		normalized = string(FilterLowShelf)
	case "high-shelf", "treble":
		normalized = string(FilterHighShelf)
	case "lp", "low-pass":
		normalized = string(FilterLowpass)
	case "hp", "high-pass":
		normalized = string(FilterHighpass)
	case "bp", "band-pass":
		normalized = string(FilterBandpass)
	}

	switch kind := FilterKind(normalized); kind {
	case FilterLowShelf, FilterHighShelf, FilterPeaking, FilterLowpass, FilterHighpass, FilterBandpass:
		return kind, nil
	default:
		return "", fmt.Errorf("effectchain: %w", core.InvalidParameter("filter kind", raw, "unknown"))
	}
}
