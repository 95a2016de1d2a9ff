package loudness

import (
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Report summarizes the loudness of a whole buffer.
type Report struct {
	IntegratedLUFS   float64   `json:"integrated_lufs"`
	MaxMomentaryLUFS float64   `json:"max_momentary_lufs"`
	ShortTermLUFS    float64   `json:"short_term_lufs"`
	SamplePeaks      []float64 `json:"sample_peaks"`
	SamplePeakDBFS   float64   `json:"sample_peak_dbfs"`
}

// Measure meters buf from start to end with integration enabled. A buffer
// shorter than one gating block reports an Integrated value of -Inf.
func Measure(buf *buffer.Buffer) (Report, error) {
	if buf == nil {
		return Report{}, fmt.Errorf("loudness: %w: nil buffer", core.ErrInvalidInput)
	}

	m, err := NewMeter(
		WithSampleRate(float64(buf.SampleRate())),
		WithChannels(buf.NumChannels()),
	)
	if err != nil {
		return Report{}, err
	}

	m.StartIntegration()

	if err := m.ProcessBuffer(buf); err != nil {
		return Report{}, err
	}

	peaks := m.Peaks()

	overall := 0.0
	for _, p := range peaks {
		overall = max(overall, p)
	}

	return Report{
		IntegratedLUFS:   m.Integrated(),
		MaxMomentaryLUFS: m.MaxMomentary(),
		ShortTermLUFS:    m.ShortTerm(),
		SamplePeaks:      peaks,
		SamplePeakDBFS:   core.LinearToDB(overall),
	}, nil
}
