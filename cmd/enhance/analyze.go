package main

import (
	"fmt"
	"math"
	"path/filepath"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/internal/audiofile"
	"github.com/cwbudde/algo-enhance/measure/loudness"
	"github.com/cwbudde/algo-enhance/measure/spectrum"
	"github.com/cwbudde/algo-enhance/measure/weighting"
)

// AnalyzeCmd prints measurements of a file.
type AnalyzeCmd struct {
	Input   string    `arg:"" type:"existingfile" help:"WAV file to analyze."`
	FFTSize int       `default:"4096" help:"FFT length, a power of two."`
	Window  string    `default:"hann" enum:"hann,rectangular,hamming,blackman" help:"Analysis window (${enum})."`
	Tones   []float64 `sep:"," help:"Frequencies in Hz to measure with a single-bin detector."`
}

// octaveCentres are the ISO nominal octave band centres.
var octaveCentres = []float64{31.5, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// Run prints loudness, weighted levels, the spectral peak, octave band
// levels and tone levels.
func (c *AnalyzeCmd) Run(g *Globals) error {
	buf, err := audiofile.Load(c.Input)
	if err != nil {
		return err
	}

	win, err := spectrum.ParseWindow(c.Window)
	if err != nil {
		return err
	}

	report, err := loudness.Measure(buf)
	if err != nil {
		return err
	}

	spec, err := spectrum.AnalyzeBuffer(buf, spectrum.WithFFTSize(c.FFTSize), spectrum.WithWindow(win))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "file\t%s\n", filepath.Base(c.Input))
	fmt.Fprintf(tw, "channels\t%d\n", buf.NumChannels())
	fmt.Fprintf(tw, "sample rate\t%d Hz\n", buf.SampleRate())
	fmt.Fprintf(tw, "duration\t%.3f s\n", buf.Duration())
	fmt.Fprintf(tw, "integrated\t%s\n", formatLevel(report.IntegratedLUFS, "LUFS"))
	fmt.Fprintf(tw, "max momentary\t%s\n", formatLevel(report.MaxMomentaryLUFS, "LUFS"))
	fmt.Fprintf(tw, "sample peak\t%s\n", formatLevel(report.SamplePeakDBFS, "dBFS"))

	for _, c := range []weighting.Curve{weighting.CurveA, weighting.CurveC} {
		level, err := weighting.LevelDB(buf, c)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s-weighted rms\t%s\n", c, formatLevel(level, "dBFS"))
	}

	if f, m := spec.Peak(); m > 0 {
		fmt.Fprintf(tw, "spectral peak\t%.1f Hz at %s\n", f, formatLevel(core.LinearToDB(m), "dBFS"))
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "BAND\tLEVEL")

	nyquist := float64(buf.SampleRate()) / 2
	for _, fc := range octaveCentres {
		hi := fc * math.Sqrt2
		if hi > nyquist {
			break
		}

		fmt.Fprintf(tw, "%g Hz\t%s\n", fc, formatLevel(spec.BandLevelDB(fc/math.Sqrt2, hi), "dB"))
	}

	if len(c.Tones) > 0 {
		mono := channelMean(buf.Channels())

		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "TONE\tAMPLITUDE")

		for _, f := range c.Tones {
			a, err := spectrum.ToneAmplitude(mono, f, float64(buf.SampleRate()))
			if err != nil {
				return err
			}

			fmt.Fprintf(tw, "%g Hz\t%s\n", f, formatLevel(core.LinearToDB(a), "dBFS"))
		}
	}

	return tw.Flush()
}

func channelMean(channels [][]float64) []float64 {
	if len(channels) == 1 {
		return channels[0]
	}

	out := make([]float64, len(channels[0]))
	for _, samples := range channels {
		vecmath.AddBlockInPlace(out, samples)
	}

	vecmath.ScaleBlock(out, out, 1/float64(len(channels)))

	return out
}
