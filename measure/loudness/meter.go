package loudness

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/filter/biquad"
	"github.com/cwbudde/algo-enhance/dsp/filter/design"
)

const (
	// K-weighting stages from BS.1770.
	kShelfFreq  = 1500.0
	kShelfGain  = 4.0
	kHighpassHz = 38.0
	kHighpassQ  = 1 / math.Sqrt2

	momentaryDuration = 0.4
	shortTermDuration = 3.0

	absThreshold = -70.0
	relThreshold = -10.0
	// Gating blocks overlap by 75 %.
	blockStepFactor = 0.25

	// FloorLUFS is reported for silence.
	FloorLUFS = -120.0
)

// channelState is the K-weighting and integration state of one channel.
type channelState struct {
	shelf, highpass *biquad.Section

	mom, short       []float64 // squared K-weighted samples, ring buffers
	momSum, shortSum float64
	peak             float64
}

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering with sample
// peak tracking.
type Meter struct {
	sampleRate float64
	chans      []channelState

	momLen, shortLen int
	momIdx, shortIdx int

	integrating  bool
	blockStep    int
	sinceStep    int
	blocks       []float64 // summed channel mean squares, one per gating block
	maxMomentary float64
}

// NewMeter creates a loudness meter. The sample rate must leave room for
// the 1.5 kHz K-weighting shelf.
func NewMeter(opts ...MeterOption) (*Meter, error) {
	cfg := ApplyMeterOptions(opts...)

	shelf, err := design.HighShelf(kShelfFreq, kShelfGain, cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("loudness: k-weighting: %w", err)
	}

	hp, err := design.Highpass(kHighpassHz, kHighpassQ, cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("loudness: k-weighting: %w", err)
	}

	m := &Meter{
		sampleRate: cfg.SampleRate,
		chans:      make([]channelState, cfg.Channels),
		momLen:     int(math.Round(momentaryDuration * cfg.SampleRate)),
		shortLen:   int(math.Round(shortTermDuration * cfg.SampleRate)),
		blockStep:  max(int(math.Round(momentaryDuration*blockStepFactor*cfg.SampleRate)), 1),
	}

	for i := range m.chans {
		m.chans[i] = channelState{
			shelf:    biquad.NewSection(shelf),
			highpass: biquad.NewSection(hp),
			mom:      make([]float64, m.momLen),
			short:    make([]float64, m.shortLen),
		}
	}

	m.Reset()

	return m, nil
}

// Channels returns the channel count.
func (m *Meter) Channels() int { return len(m.chans) }

// Reset clears all integration state and peaks. Integration stays enabled
// if it was running.
func (m *Meter) Reset() {
	for i := range m.chans {
		c := &m.chans[i]
		c.shelf.Reset()
		c.highpass.Reset()
		clear(c.mom)
		clear(c.short)
		c.momSum, c.shortSum, c.peak = 0, 0, 0
	}

	m.momIdx, m.shortIdx, m.sinceStep = 0, 0, 0
	m.blocks = nil
	m.maxMomentary = math.Inf(-1)
}

// StartIntegration starts collecting gating blocks for Integrated.
func (m *Meter) StartIntegration() { m.integrating = true }

// StopIntegration stops collecting gating blocks.
func (m *Meter) StopIntegration() { m.integrating = false }

// ProcessFrame processes one sample per channel. Short frames are ignored.
func (m *Meter) ProcessFrame(frame []float64) {
	if len(frame) < len(m.chans) {
		return
	}

	for i := range m.chans {
		c := &m.chans[i]

		x := frame[i]
		if a := math.Abs(x); a > c.peak {
			c.peak = a
		}

		y := c.highpass.ProcessSample(c.shelf.ProcessSample(x))
		sq := y * y

		c.momSum = max(c.momSum+sq-c.mom[m.momIdx], 0)
		c.mom[m.momIdx] = sq

		c.shortSum = max(c.shortSum+sq-c.short[m.shortIdx], 0)
		c.short[m.shortIdx] = sq
	}

	m.momIdx = (m.momIdx + 1) % m.momLen
	m.shortIdx = (m.shortIdx + 1) % m.shortLen

	m.sinceStep++
	if m.sinceStep < m.blockStep {
		return
	}

	m.sinceStep = 0

	z := m.momentaryMeanSquare()
	m.maxMomentary = max(m.maxMomentary, toLUFS(z))

	if m.integrating {
		m.blocks = append(m.blocks, z)
	}
}

// ProcessInterleaved processes a block of interleaved frames.
func (m *Meter) ProcessInterleaved(block []float64) {
	n := len(m.chans)
	for i := 0; i+n <= len(block); i += n {
		m.ProcessFrame(block[i : i+n])
	}
}

// ProcessBuffer processes every frame of buf, whose channel count must match
// the meter.
func (m *Meter) ProcessBuffer(buf *buffer.Buffer) error {
	if buf.NumChannels() != len(m.chans) {
		return fmt.Errorf("loudness: %w: buffer has %d channels, meter %d",
			core.ErrInvalidInput, buf.NumChannels(), len(m.chans))
	}

	frame := make([]float64, len(m.chans))
	channels := buf.Channels()

	for i := range buf.Frames() {
		for ch, samples := range channels {
			frame[ch] = samples[i]
		}
		m.ProcessFrame(frame)
	}

	return nil
}

// Momentary returns the current 400 ms loudness in LUFS.
func (m *Meter) Momentary() float64 {
	return toLUFS(m.momentaryMeanSquare())
}

// MaxMomentary returns the largest momentary loudness seen at a gating
// block boundary since Reset.
func (m *Meter) MaxMomentary() float64 {
	if math.IsInf(m.maxMomentary, -1) {
		return FloorLUFS
	}

	return m.maxMomentary
}

// ShortTerm returns the current 3 s loudness in LUFS.
func (m *Meter) ShortTerm() float64 {
	sum := 0.0
	for i := range m.chans {
		sum += m.chans[i].shortSum / float64(m.shortLen)
	}

	return toLUFS(sum)
}

// Integrated returns the gated integrated loudness in LUFS since
// StartIntegration, or -Inf when no block passes the gates.
func (m *Meter) Integrated() float64 {
	var (
		absSum   float64
		absCount int
	)

	for _, z := range m.blocks {
		if toLUFS(z) > absThreshold {
			absSum += z
			absCount++
		}
	}

	if absCount == 0 {
		return math.Inf(-1)
	}

	gate := toLUFS(absSum/float64(absCount)) + relThreshold

	var (
		relSum   float64
		relCount int
	)

	for _, z := range m.blocks {
		if l := toLUFS(z); l > absThreshold && l > gate {
			relSum += z
			relCount++
		}
	}

	if relCount == 0 {
		return math.Inf(-1)
	}

	return toLUFS(relSum / float64(relCount))
}

// Peaks returns the largest absolute sample per channel since Reset.
func (m *Meter) Peaks() []float64 {
	p := make([]float64, len(m.chans))
	for i := range m.chans {
		p[i] = m.chans[i].peak
	}

	return p
}

func (m *Meter) momentaryMeanSquare() float64 {
	sum := 0.0
	for i := range m.chans {
		sum += m.chans[i].momSum / float64(m.momLen)
	}

	return sum
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return FloorLUFS
	}

	return -0.691 + 10.0*math.Log10(meanSquare)
}
