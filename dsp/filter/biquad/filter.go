package biquad

import (
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Filter applies one set of coefficients to several channels. Each channel
// owns its own Section, so the delay-line state of one channel never
// influences another.
type Filter struct {
	coeffs   Coefficients
	sections []Section
}

// NewFilter returns a Filter for the given number of channels with zeroed state.
func NewFilter(c Coefficients, channels int) (*Filter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("biquad: %w", core.InvalidParameter("channels", channels, "must be >= 1"))
	}

	f := &Filter{
		coeffs:   c,
		sections: make([]Section, channels),
	}
	for i := range f.sections {
		f.sections[i].Coefficients = c
	}

	return f, nil
}

// Coefficients returns the shared coefficients.
func (f *Filter) Coefficients() Coefficients { return f.coeffs }

// NumChannels returns the number of independent delay lines.
func (f *Filter) NumChannels() int { return len(f.sections) }

// ProcessChannel filters buf in place using the state of channel ch.
func (f *Filter) ProcessChannel(ch int, buf []float64) {
	f.sections[ch].ProcessBlock(buf)
}

// Process filters every channel in place. The number of channels must match
// the count the filter was built for.
func (f *Filter) Process(channels [][]float64) error {
	if len(channels) != len(f.sections) {
		return fmt.Errorf("biquad: filter built for %d channels got %d: %w",
			len(f.sections), len(channels), core.ErrInternalInvariant)
	}

	for ch, buf := range channels {
		f.sections[ch].ProcessBlock(buf)
	}

	return nil
}

// Section returns the per-channel section for inspection.
func (f *Filter) Section(ch int) *Section {
	return &f.sections[ch]
}

// Reset clears the state of every channel.
func (f *Filter) Reset() {
	for i := range f.sections {
		f.sections[i].Reset()
	}
}
