package preset

import (
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/effectchain"
)

// Corner frequencies and dynamics used by the manual controls.
const (
	BassFrequencyHz   = 200.0
	TrebleFrequencyHz = 3000.0

	manualDriveOversample = 2

	compKneeDB   = 10.0
	compAttack   = 0.003
	compRelease  = 0.25
	compMaxRatio = 12.0
)

// Domains of the manual controls.
const (
	MaxShelfGainDB = 24.0
	MaxGainDB      = 24.0
	MaxDrive       = 100.0
)

// ManualParams is a user-tunable parameter set. A nil field, or a field at
// its neutral value, adds no stage.
type ManualParams struct {
	// Bass is the low-shelf gain in dB at BassFrequencyHz.
	Bass *float64 `json:"bass,omitempty"`
	// Treble is the high-shelf gain in dB at TrebleFrequencyHz.
	Treble *float64 `json:"treble,omitempty"`
	// Compression is an amount in [0, 1] mapped onto threshold and ratio.
	Compression *float64 `json:"compression,omitempty"`
	Normalize   *bool    `json:"normalize,omitempty"`
	// Lowpass and Highpass are cutoff frequencies in Hz.
	Lowpass  *float64 `json:"lowpass,omitempty"`
	Highpass *float64 `json:"highpass,omitempty"`

	Drive *float64 `json:"drive,omitempty"`
	Pan   *float64 `json:"pan,omitempty"`
	Gain  *float64 `json:"gain,omitempty"`
}

// Float returns a pointer to v, for building ManualParams literals.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// IsZero reports whether Compose would return an empty chain.
func (p ManualParams) IsZero() bool {
	return isNeutral(p.Bass) && isNeutral(p.Treble) && isNeutral(p.Compression) &&
		isNeutral(p.Lowpass) && isNeutral(p.Highpass) && isNeutral(p.Drive) &&
		isNeutral(p.Pan) && isNeutral(p.Gain) && (p.Normalize == nil || !*p.Normalize)
}

// Validate checks every set field against its domain. Cutoffs are checked
// against the Nyquist frequency later, when the chain meets a sample rate.
func (p ManualParams) Validate() error {
	checks := []struct {
		name     string
		v        *float64
		min, max float64
	}{
		{"bass", p.Bass, -MaxShelfGainDB, MaxShelfGainDB},
		{"treble", p.Treble, -MaxShelfGainDB, MaxShelfGainDB},
		{"compression", p.Compression, 0, 1},
		{"drive", p.Drive, 0, MaxDrive},
		{"pan", p.Pan, -1, 1},
		{"gain", p.Gain, -MaxGainDB, MaxGainDB},
	}

	for _, c := range checks {
		if c.v == nil {
			continue
		}

		if v := *c.v; !core.IsFinite(v) || v < c.min || v > c.max {
			return fmt.Errorf("preset: %w", core.InvalidParameter(c.name, v,
				fmt.Sprintf("must be in [%g, %g]", c.min, c.max)))
		}
	}

	for _, c := range []struct {
		name string
		v    *float64
	}{{"highpass", p.Highpass}, {"lowpass", p.Lowpass}} {
		if isNeutral(c.v) {
			continue
		}

		if v := *c.v; !core.IsFinite(v) || v < 0 {
			return fmt.Errorf("preset: %w", core.InvalidParameter(c.name, v, "must be > 0 Hz"))
		}
	}

	return nil
}

// Compose validates p and builds its chain in the fixed order highpass,
// lowpass, bass, treble, drive, compression, pan, gain, normalize. Controls
// at their neutral value are omitted, so zero params give an empty chain.
func Compose(p ManualParams) ([]effectchain.StageSpec, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var specs []effectchain.StageSpec

	if !isNeutral(p.Highpass) {
		specs = append(specs, effectchain.Filter(effectchain.FilterHighpass, *p.Highpass, butterworthQ, 0))
	}
	if !isNeutral(p.Lowpass) {
		specs = append(specs, effectchain.Filter(effectchain.FilterLowpass, *p.Lowpass, butterworthQ, 0))
	}
	if !isNeutral(p.Bass) {
		specs = append(specs, effectchain.Filter(effectchain.FilterLowShelf, BassFrequencyHz, 0, *p.Bass))
	}
	if !isNeutral(p.Treble) {
		specs = append(specs, effectchain.Filter(effectchain.FilterHighShelf, TrebleFrequencyHz, 0, *p.Treble))
	}
	if !isNeutral(p.Drive) {
		specs = append(specs, effectchain.WaveshaperSpec{Drive: *p.Drive, Oversample: manualDriveOversample})
	}
	if !isNeutral(p.Compression) {
		specs = append(specs, compressionSpec(*p.Compression))
	}
	if !isNeutral(p.Pan) {
		specs = append(specs, effectchain.PanSpec{Pan: *p.Pan})
	}
	if !isNeutral(p.Gain) {
		specs = append(specs, effectchain.GainSpec{GainDB: *p.Gain})
	}
	if p.Normalize != nil && *p.Normalize {
		specs = append(specs, effectchain.Normalize())
	}

	return specs, nil
}

// compressionSpec maps an amount in (0, 1] to a threshold in [-40, -10) dB
// and a ratio in (1, 12].
func compressionSpec(amount float64) effectchain.CompressorSpec {
	return effectchain.CompressorSpec{
		ThresholdDB:    -10 - 30*amount,
		KneeDB:         compKneeDB,
		Ratio:          1 + (compMaxRatio-1)*amount,
		AttackSeconds:  compAttack,
		ReleaseSeconds: compRelease,
	}
}

func isNeutral(v *float64) bool {
	return v == nil || *v == 0
}
