package preset

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/effectchain"
)

// Built-in preset names.
const (
	BassBoost      = "bass-boost"
	StudioSound    = "studio-sound"
	PodcastVoice   = "podcast-voice"
	ASMR           = "asmr"
	NoiseReduction = "noise-reduction"
	RadioVoice     = "radio-voice"
	VinylEffect    = "vinyl-effect"
	PhoneCall      = "phone-call"
	Normalize      = "normalize"
	Compression    = "compression"
)

// ErrUnknownPreset is returned by Lookup for a name that is not built in.
var ErrUnknownPreset = fmt.Errorf("%w: unknown preset", core.ErrInvalidInput)

var names = []string{
	BassBoost, StudioSound, PodcastVoice, ASMR, NoiseReduction,
	RadioVoice, VinylEffect, PhoneCall, Normalize, Compression,
}

const butterworthQ = 1 / math.Sqrt2

type (
	filter     = effectchain.FilterSpec
	compressor = effectchain.CompressorSpec
	shaper     = effectchain.WaveshaperSpec
	gain       = effectchain.GainSpec
)

// Every preset keeps its corner frequencies below 8 kHz so it validates at
// 16 kHz and above.
var builtins = map[string][]effectchain.StageSpec{
	BassBoost: {
		filter{Type: effectchain.FilterLowShelf, FrequencyHz: 200, GainDB: 10},
		gain{GainDB: -4},
	},
	StudioSound: {
		filter{Type: effectchain.FilterHighpass, FrequencyHz: 80, Q: butterworthQ},
		filter{Type: effectchain.FilterLowShelf, FrequencyHz: 120, GainDB: 3},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 3000, Q: 1, GainDB: 2},
		filter{Type: effectchain.FilterHighShelf, FrequencyHz: 7000, GainDB: 3},
		compressor{ThresholdDB: -20, KneeDB: 10, Ratio: 3, AttackSeconds: 0.005, ReleaseSeconds: 0.15},
		effectchain.Normalize(),
	},
	PodcastVoice: {
		filter{Type: effectchain.FilterHighpass, FrequencyHz: 100, Q: butterworthQ},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 250, Q: 1, GainDB: -3},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 3000, Q: 1.2, GainDB: 4},
		compressor{ThresholdDB: -18, KneeDB: 6, Ratio: 4, AttackSeconds: 0.003, ReleaseSeconds: 0.2},
		effectchain.Normalize(),
	},
	ASMR: {
		filter{Type: effectchain.FilterHighpass, FrequencyHz: 40, Q: butterworthQ},
		filter{Type: effectchain.FilterHighShelf, FrequencyHz: 6000, GainDB: 6},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 200, Q: 0.8, GainDB: 2},
		compressor{ThresholdDB: -30, KneeDB: 20, Ratio: 2, AttackSeconds: 0.01, ReleaseSeconds: 0.3},
		gain{GainDB: 3},
	},
	NoiseReduction: {
		filter{Type: effectchain.FilterHighpass, FrequencyHz: 120, Q: butterworthQ},
		filter{Type: effectchain.FilterLowpass, FrequencyHz: 7500, Q: butterworthQ},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 5000, Q: 2, GainDB: -3},
		compressor{ThresholdDB: -35, KneeDB: 10, Ratio: 1.5, AttackSeconds: 0.01, ReleaseSeconds: 0.3},
	},
	RadioVoice: {
		filter{Type: effectchain.FilterHighpass, FrequencyHz: 300, Q: butterworthQ},
		filter{Type: effectchain.FilterLowpass, FrequencyHz: 3400, Q: butterworthQ},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 1500, Q: 1, GainDB: 5},
		shaper{Drive: 20, Oversample: 2},
		compressor{ThresholdDB: -20, KneeDB: 0, Ratio: 8, AttackSeconds: 0.001, ReleaseSeconds: 0.1},
		gain{GainDB: -2},
	},
	VinylEffect: {
		filter{Type: effectchain.FilterLowpass, FrequencyHz: 5000, Q: 0.7},
		filter{Type: effectchain.FilterLowShelf, FrequencyHz: 200, GainDB: 2},
		shaper{Drive: 5, Oversample: 2},
		gain{GainDB: -1},
	},
	PhoneCall: {
		filter{Type: effectchain.FilterHighpass, FrequencyHz: 400, Q: 1},
		filter{Type: effectchain.FilterLowpass, FrequencyHz: 3400, Q: 1},
		filter{Type: effectchain.FilterPeaking, FrequencyHz: 1800, Q: 1, GainDB: 6},
		shaper{Drive: 10, Oversample: 1},
		compressor{ThresholdDB: -24, KneeDB: 6, Ratio: 6, AttackSeconds: 0.002, ReleaseSeconds: 0.1},
	},
	Normalize: {
		effectchain.Normalize(),
	},
	Compression: {
		compressor{ThresholdDB: -24, KneeDB: 30, Ratio: 12, AttackSeconds: 0.003, ReleaseSeconds: 0.25},
		gain{GainDB: 4},
	},
}

// Names returns the built-in preset names in a stable order.
func Names() []string {
	return slices.Clone(names)
}

// Lookup returns a copy of the stage list for a built-in preset.
func Lookup(name string) ([]effectchain.StageSpec, error) {
	specs, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("preset: %w: %q", ErrUnknownPreset, name)
	}

	return slices.Clone(specs), nil
}
