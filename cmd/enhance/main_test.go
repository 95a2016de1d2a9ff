package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/internal/audiofile"
	"github.com/cwbudde/algo-enhance/internal/testutil"
	"github.com/cwbudde/algo-enhance/preset"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

// writeTone stores a half-second stereo tone and returns its path.
func writeTone(t *testing.T, freq, amplitude float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, audiofile.Save(path, testutil.SineBuffer(t, freq, 44100, 2, 22050, amplitude)))

	return path
}

func TestPresetsList(t *testing.T) {
	out, _, err := runCLI(t, "presets")
	require.NoError(t, err)

	for _, name := range preset.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "filter > gain", "bass-boost stages")
}

func TestPresetsShow(t *testing.T) {
	out, _, err := runCLI(t, "presets", "studio-sound")
	require.NoError(t, err)

	p, err := preset.ParseJSON([]byte(out))
	require.NoError(t, err)

	want, err := preset.Lookup("studio-sound")
	require.NoError(t, err)
	assert.Equal(t, want, p.Stages)

	_, _, err = runCLI(t, "presets", "nope")
	assert.ErrorIs(t, err, preset.ErrUnknownPreset)
}

func TestRenderPreset(t *testing.T) {
	in := writeTone(t, 1000, 0.5)
	outPath := filepath.Join(t.TempDir(), "out", "normalized.wav")

	stdout, _, err := runCLI(t, "render", "-p", "normalize", "--report", in, outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "integrated")

	got, err := audiofile.Load(outPath)
	require.NoError(t, err)
	assert.InDelta(t, core.DBToLinear(-3), got.Peak(), 2.0/32768)
}

func TestRenderManual(t *testing.T) {
	in := writeTone(t, 1000, 0.5)
	outPath := filepath.Join(t.TempDir(), "quiet.wav")

	_, _, err := runCLI(t, "render", "--gain=-6", "--bit-depth", "24", in, outPath)
	require.NoError(t, err)

	got, err := audiofile.Load(outPath)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*core.DBToLinear(-6), got.Peak(), 1e-3)
}

func TestRenderPresetFile(t *testing.T) {
	in := writeTone(t, 1000, 0.5)
	dir := t.TempDir()

	presetPath := filepath.Join(dir, "loud.json")
	require.NoError(t, os.WriteFile(presetPath, []byte(`{
		"name": "loud",
		"stages": [
			{"type": "gain", "params": {"gain": 6}},
			{"type": "pan", "bypassed": true, "params": {"pan": -1}}
		]
	}`), 0o600))

	outPath := filepath.Join(dir, "out.wav")

	_, _, err := runCLI(t, "render", "--preset-file", presetPath, in, outPath)
	require.NoError(t, err)

	got, err := audiofile.Load(outPath)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*core.DBToLinear(6), got.Peak(), 1e-3)
	assert.InDelta(t, got.Channel(0)[100], got.Channel(1)[100], 1e-12, "bypassed pan")
}

func TestRenderRejectsSelection(t *testing.T) {
	in := writeTone(t, 1000, 0.5)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	tests := []struct {
		name string
		args []string
	}{
		{"nothing", []string{"render", in, outPath}},
		{"preset and manual", []string{"render", "-p", "asmr", "--bass", "3", in, outPath}},
		{"unknown preset", []string{"render", "-p", "loudest", in, outPath}},
		{"out of range", []string{"render", "--compression", "2", in, outPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.ErrorIs(t, err, core.ErrValidation)

			_, statErr := os.Stat(outPath)
			assert.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestAnalyze(t *testing.T) {
	in := writeTone(t, 1000, 0.5)

	out, _, err := runCLI(t, "analyze", "--tones", "1000,250", in)
	require.NoError(t, err)

	assert.Regexp(t, `sample rate\s+44100 Hz`, out)
	assert.Contains(t, out, "BAND")
	assert.Regexp(t, `A-weighted rms\s+-9\.0 dBFS`, out)
	assert.Contains(t, out, "1000 Hz")

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "1000 Hz") && strings.Contains(line, "dBFS") {
			assert.Contains(t, line, "-6.0 dBFS")
		}
	}
}

func TestConfigFile(t *testing.T) {
	in := writeTone(t, 1000, 0.25)
	dir := t.TempDir()

	cfg := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"log_level": "info", "log_format": "json"}`), 0o600))

	_, stderr, err := runCLI(t, "--config", cfg, "render", "-p", "compression", in, filepath.Join(dir, "out.wav"))
	require.NoError(t, err)
	assert.Contains(t, stderr, `"function":"RenderCmd.Run"`)
	assert.Contains(t, stderr, `"msg":"Rendered file"`)
}

func TestFormatLevel(t *testing.T) {
	assert.Equal(t, "-inf LUFS", formatLevel(math.Inf(-1), "LUFS"))
	assert.Equal(t, "-inf dB", formatLevel(-200, "dB"))
	assert.Equal(t, "-6.0 dBFS", formatLevel(-6.02, "dBFS"))
}
