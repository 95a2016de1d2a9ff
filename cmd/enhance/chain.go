package main

import (
	"github.com/cwbudde/algo-enhance/preset"
	"github.com/cwbudde/algo-enhance/render"
)

// ChainFlags selects what gets rendered. A preset, a preset file and the
// manual settings are mutually exclusive.
type ChainFlags struct {
	Preset     string `short:"p" help:"Built-in preset name." xor:"preset"`
	PresetFile string `type:"existingfile" help:"JSON preset file." xor:"preset"`

	Bass        float64 `group:"Manual" help:"Bass shelf gain at 200 Hz in dB."`
	Treble      float64 `group:"Manual" help:"Treble shelf gain at 3 kHz in dB."`
	Compression float64 `group:"Manual" help:"Compression amount in [0,1]."`
	Normalize   bool    `group:"Manual" help:"Normalize the peak to -3 dBFS."`
	Lowpass     float64 `group:"Manual" help:"Lowpass cutoff in Hz."`
	Highpass    float64 `group:"Manual" help:"Highpass cutoff in Hz."`
	Drive       float64 `group:"Manual" help:"Waveshaper drive in [0,100]."`
	Pan         float64 `group:"Manual" help:"Stereo pan in [-1,1]."`
	Gain        float64 `group:"Manual" help:"Output gain in dB."`
}

// manual returns the manual settings, or nil when every one is neutral.
func (f *ChainFlags) manual() *preset.ManualParams {
	p := &preset.ManualParams{}

	set := func(dst **float64, v float64) {
		if v != 0 {
			*dst = preset.Float(v)
		}
	}

	set(&p.Bass, f.Bass)
	set(&p.Treble, f.Treble)
	set(&p.Compression, f.Compression)
	set(&p.Lowpass, f.Lowpass)
	set(&p.Highpass, f.Highpass)
	set(&p.Drive, f.Drive)
	set(&p.Pan, f.Pan)
	set(&p.Gain, f.Gain)

	if f.Normalize {
		p.Normalize = preset.Bool(true)
	}

	if p.IsZero() {
		return nil
	}

	return p
}

// request builds the render request. Selecting nothing is left for the
// renderer to reject.
func (f *ChainFlags) request() (render.Request, error) {
	req := render.Request{
		Preset: f.Preset,
		Manual: f.manual(),
	}

	if f.PresetFile != "" {
		p, err := preset.LoadJSON(f.PresetFile)
		if err != nil {
			return render.Request{}, err
		}

		req.Stages = p.Stages
	}

	return req, nil
}
