package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/effects"
	"github.com/cwbudde/algo-enhance/dsp/effects/dynamics"
	"github.com/cwbudde/algo-enhance/dsp/effects/spatial"
	"github.com/cwbudde/algo-enhance/dsp/filter/biquad"
)

type filterStage struct {
	filter *biquad.Filter
}

func (s *filterStage) Process(buf *buffer.Buffer) error {
	if err := checkChannels(KindFilter, s.filter.NumChannels(), buf); err != nil {
		return err
	}

	return s.filter.Process(buf.Channels())
}

type compressorStage struct {
	comps []*dynamics.Compressor
}

func (s CompressorSpec) newCompressor(sampleRate float64) (*dynamics.Compressor, error) {
	c, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: %w", err)
	}

	for _, set := range []struct {
		fn func(float64) error
		v  float64
	}{
		{c.SetThreshold, s.ThresholdDB},
		{c.SetKnee, s.KneeDB},
		{c.SetRatio, s.Ratio},
		{c.SetAttack, s.AttackSeconds},
		{c.SetRelease, s.ReleaseSeconds},
	} {
		if err := set.fn(set.v); err != nil {
			return nil, fmt.Errorf("effectchain: %w", err)
		}
	}

	return c, nil
}

func (s *compressorStage) Process(buf *buffer.Buffer) error {
	if err := checkChannels(KindCompressor, len(s.comps), buf); err != nil {
		return err
	}

	for ch, c := range s.comps {
		c.ProcessInPlace(buf.Channel(ch))
	}

	return nil
}

// GainReductionDB reports the most recent reduction of each channel.
func (s *compressorStage) GainReductionDB() []float64 {
	out := make([]float64, len(s.comps))
	for ch, c := range s.comps {
		out[ch] = c.GainReductionDB()
	}

	return out
}

type waveshaperStage struct {
	shapers []*effects.Waveshaper
}

func (s WaveshaperSpec) newWaveshaper() (*effects.Waveshaper, error) {
	w, err := effects.NewWaveshaper(
		effects.WithWaveshaperDrive(s.Drive),
		effects.WithWaveshaperOversample(s.Oversample),
	)
	if err != nil {
		return nil, fmt.Errorf("effectchain: %w", err)
	}

	return w, nil
}

func (s *waveshaperStage) Process(buf *buffer.Buffer) error {
	if err := checkChannels(KindWaveshaper, len(s.shapers), buf); err != nil {
		return err
	}

	for ch, w := range s.shapers {
		w.ProcessInPlace(buf.Channel(ch))
	}

	return nil
}

type gainStage struct {
	channels  int
	blockSize int
	gain      *effects.Gain
	ramp      *effects.Ramp
}

func newGainStage(fromDB, toDB float64, rampFrames, channels, blockSize int) (*gainStage, error) {
	st := &gainStage{channels: channels, blockSize: blockSize}

	if rampFrames > 0 {
		r, err := effects.NewRampDB(fromDB, toDB, rampFrames)
		if err != nil {
			return nil, fmt.Errorf("effectchain: %w", err)
		}
		st.ramp = r

		return st, nil
	}

	g, err := effects.NewGain(toDB)
	if err != nil {
		return nil, fmt.Errorf("effectchain: %w", err)
	}
	st.gain = g

	return st, nil
}

func (s *gainStage) Process(buf *buffer.Buffer) error {
	if err := checkChannels(KindGain, s.channels, buf); err != nil {
		return err
	}

	if s.ramp != nil {
		s.ramp.ProcessChannels(buf.Channels(), s.blockSize)
		return nil
	}

	for _, ch := range buf.Channels() {
		s.gain.ProcessInPlace(ch)
	}

	return nil
}

type panStage struct {
	channels int
	panner   *spatial.Panner
}

func newPanStage(pan float64, channels int) (*panStage, error) {
	p, err := spatial.NewPanner(pan)
	if err != nil {
		return nil, fmt.Errorf("effectchain: %w", err)
	}

	return &panStage{channels: channels, panner: p}, nil
}

// Process pans the first two channels. Mono buffers pass through.
func (s *panStage) Process(buf *buffer.Buffer) error {
	if err := checkChannels(KindPan, s.channels, buf); err != nil {
		return err
	}

	if buf.NumChannels() < 2 {
		return nil
	}

	s.panner.ProcessInPlace(buf.Channel(0), buf.Channel(1))

	return nil
}
