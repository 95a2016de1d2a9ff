package preset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/effectchain"
	"github.com/cwbudde/algo-enhance/internal/testutil"
)

func TestNamesStableAndComplete(t *testing.T) {
	want := []string{
		"bass-boost", "studio-sound", "podcast-voice", "asmr", "noise-reduction",
		"radio-voice", "vinyl-effect", "phone-call", "normalize", "compression",
	}

	assert.Equal(t, want, Names())

	names := Names()
	names[0] = "mutated"
	assert.Equal(t, want, Names(), "Names must return a copy")
}

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range Names() {
		specs, err := Lookup(name)
		require.NoError(t, err, name)
		require.NotEmpty(t, specs, name)

		for _, sr := range []float64{16000, 44100, 48000, 96000} {
			assert.NoError(t, effectchain.Validate(specs, sr), "%s at %g Hz", name, sr)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	specs, err := Lookup("chipmunk")
	require.Error(t, err)
	assert.Nil(t, specs)
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestLookupReturnsCopy(t *testing.T) {
	a, err := Lookup(Compression)
	require.NoError(t, err)

	a[0] = effectchain.PanSpec{Pan: 1}

	b, err := Lookup(Compression)
	require.NoError(t, err)
	assert.Equal(t, effectchain.KindCompressor, b[0].Kind())
}

func TestBassBoostRaisesLowsOverMids(t *testing.T) {
	const (
		sr     = 48000
		frames = sr / 2
	)

	specs, err := Lookup(BassBoost)
	require.NoError(t, err)

	// Measure steady state only, after the shelf has settled.
	level := func(freq float64) float64 {
		buf := testutil.SineBuffer(t, freq, sr, 1, frames, 0.25)
		chain, err := effectchain.Build(effectchain.NewContext(core.WithSampleRate(sr)), specs, 1)
		require.NoError(t, err)
		require.NoError(t, chain.Process(buf))

		return rms(buf.Channel(0)[frames/2:])
	}

	low := level(100)
	mid := level(1000)

	assert.Greater(t, low, mid)
	assert.Greater(t, core.LinearToDB(low/mid), 6.0)
}

func TestComposeZeroParamsIsIdentity(t *testing.T) {
	for _, p := range []ManualParams{
		{},
		{Bass: Float(0), Treble: Float(0), Compression: Float(0), Normalize: Bool(false)},
		{Lowpass: Float(0), Highpass: Float(0), Drive: Float(0), Pan: Float(0), Gain: Float(0)},
	} {
		specs, err := Compose(p)
		require.NoError(t, err)
		assert.Empty(t, specs)
		assert.True(t, p.IsZero())
	}
}

func TestComposeOrder(t *testing.T) {
	p := ManualParams{
		Normalize:   Bool(true),
		Gain:        Float(-2),
		Pan:         Float(0.3),
		Compression: Float(0.5),
		Drive:       Float(10),
		Treble:      Float(4),
		Bass:        Float(6),
		Lowpass:     Float(12000),
		Highpass:    Float(60),
	}

	specs, err := Compose(p)
	require.NoError(t, err)
	require.Len(t, specs, 9)

	assert.Equal(t, effectchain.Filter(effectchain.FilterHighpass, 60, butterworthQ, 0), specs[0])
	assert.Equal(t, effectchain.Filter(effectchain.FilterLowpass, 12000, butterworthQ, 0), specs[1])
	assert.Equal(t, effectchain.Filter(effectchain.FilterLowShelf, BassFrequencyHz, 0, 6), specs[2])
	assert.Equal(t, effectchain.Filter(effectchain.FilterHighShelf, TrebleFrequencyHz, 0, 4), specs[3])
	assert.Equal(t, effectchain.WaveshaperSpec{Drive: 10, Oversample: 2}, specs[4])
	assert.Equal(t, effectchain.CompressorSpec{
		ThresholdDB: -25, KneeDB: 10, Ratio: 6.5, AttackSeconds: 0.003, ReleaseSeconds: 0.25,
	}, specs[5])
	assert.Equal(t, effectchain.PanSpec{Pan: 0.3}, specs[6])
	assert.Equal(t, effectchain.GainSpec{GainDB: -2}, specs[7])
	assert.Equal(t, effectchain.Normalize(), specs[8])

	require.NoError(t, effectchain.Validate(specs, 44100))
}

func TestComposeRejectsOutOfDomain(t *testing.T) {
	tests := []struct {
		name string
		p    ManualParams
	}{
		{"bass too high", ManualParams{Bass: Float(25)}},
		{"treble too low", ManualParams{Treble: Float(-30)}},
		{"compression above 1", ManualParams{Compression: Float(1.5)}},
		{"compression negative", ManualParams{Compression: Float(-0.1)}},
		{"drive too high", ManualParams{Drive: Float(101)}},
		{"pan out of range", ManualParams{Pan: Float(-2)}},
		{"gain nan", ManualParams{Gain: Float(math.NaN())}},
		{"negative lowpass", ManualParams{Lowpass: Float(-100)}},
		{"infinite highpass", ManualParams{Highpass: Float(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := Compose(tt.p)
			assert.Nil(t, specs)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestComposeCutoffAboveNyquistFailsAtValidation(t *testing.T) {
	specs, err := Compose(ManualParams{Lowpass: Float(30000)})
	require.NoError(t, err)

	assert.ErrorIs(t, effectchain.Validate(specs, 44100), core.ErrInvalidParameter)
	assert.NoError(t, effectchain.Validate(specs, 96000))
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"name": "warm",
		"description": "gentle low lift",
		"stages": [
			{"type": "filter", "params": {"kind": "bass", "frequency": 150, "gain": 3}},
			{"type": "waveshaper", "bypassed": true, "params": {"drive": 4}},
			{"type": "gain", "params": {"gain": -1}}
		]
	}`)

	p, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "warm", p.Name)
	assert.Equal(t, "gentle low lift", p.Description)
	assert.Equal(t, []effectchain.StageSpec{
		effectchain.Filter(effectchain.FilterLowShelf, 150, 0, 3),
		effectchain.GainSpec{GainDB: -1},
	}, p.Stages)
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{"name":`, core.ErrInvalidInput},
		{"missing name", `{"stages": []}`, core.ErrInvalidInput},
		{"unknown stage", `{"name": "x", "stages": [{"type": "flanger"}]}`, effectchain.ErrUnknownStage},
		{"missing param", `{"name": "x", "stages": [{"type": "pan"}]}`, core.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseJSON([]byte(tt.data))
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPresetJSONRoundTrip(t *testing.T) {
	for _, name := range Names() {
		p, err := Builtin(name)
		require.NoError(t, err)

		data, err := p.MarshalJSON()
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), name+".json")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		got, err := LoadJSON(path)
		require.NoError(t, err, name)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Stages, got.Stages, name)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}
