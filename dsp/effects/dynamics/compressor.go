package dynamics

import (
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

const (
	// Default compressor parameters
	defaultCompressorThresholdDB = -24.0
	defaultCompressorRatio       = 12.0
	defaultCompressorKneeDB      = 30.0
	defaultCompressorAttack      = 0.003
	defaultCompressorRelease     = 0.25

	minCompressorRatio = 1.0
)

// CompressorMetrics holds metering information for visualization and analysis.
type CompressorMetrics struct {
	InputPeak       float64 // Maximum input level since last reset
	OutputPeak      float64 // Maximum output level since last reset
	GainReductionDB float64 // Deepest reduction in dB (<= 0) since last reset
}

// Compressor is a feed-forward soft-knee compressor.
//
// A one-pole envelope follower tracks |x| with separate attack and release
// time constants. The envelope is compared against the threshold in dB; a
// quadratic knee of width KneeDB centred on the threshold blends into the
// hard ratio slope. The resulting gain multiplies the raw input sample.
// There is no lookahead and no makeup gain.
//
// The compressor is mono. Multi-channel callers keep one instance per
// channel so envelope state never leaks between channels.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attack      float64
	release     float64

	sampleRate float64

	envelope        float64
	attackCoeff     float64
	releaseCoeff    float64
	gainReductionDB float64

	metrics CompressorMetrics
}

// NewCompressor creates a soft-knee compressor.
//
// Sample rate must be positive and finite.
//
// Default parameters:
//   - Threshold: -24 dB
//   - Ratio: 12:1
//   - Knee: 30 dB
//   - Attack: 3 ms
//   - Release: 250 ms
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.InvalidParameter("compressor sample rate", sampleRate, "must be positive and finite")
	}

	c := &Compressor{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		kneeDB:      defaultCompressorKneeDB,
		attack:      defaultCompressorAttack,
		release:     defaultCompressorRelease,
		sampleRate:  sampleRate,
	}

	c.updateTimeConstants()
	return c, nil
}

// SetThreshold sets the compression threshold in dBFS. Must be <= 0.
func (c *Compressor) SetThreshold(dB float64) error {
	if dB > 0 || !core.IsFinite(dB) {
		return core.InvalidParameter("compressor threshold", dB, "must be <= 0 dB")
	}
	c.thresholdDB = dB
	return nil
}

// SetRatio sets the compression ratio.
//   - 1.0 = no compression
//   - 4.0 = 4:1 (musical compression)
//   - 20.0 and above approaches limiting
func (c *Compressor) SetRatio(ratio float64) error {
	if ratio < minCompressorRatio || !core.IsFinite(ratio) {
		return core.InvalidParameter("compressor ratio", ratio, "must be >= 1")
	}
	c.ratio = ratio
	return nil
}

// SetKnee sets the soft-knee width in dB. Zero selects a hard knee.
func (c *Compressor) SetKnee(kneeDB float64) error {
	if kneeDB < 0 || !core.IsFinite(kneeDB) {
		return core.InvalidParameter("compressor knee", kneeDB, "must be >= 0 dB")
	}
	c.kneeDB = kneeDB
	return nil
}

// SetAttack sets the attack time constant in seconds.
func (c *Compressor) SetAttack(seconds float64) error {
	if seconds <= 0 || !core.IsFinite(seconds) {
		return core.InvalidParameter("compressor attack", seconds, "must be > 0 s")
	}
	c.attack = seconds
	c.updateTimeConstants()
	return nil
}

// SetRelease sets the release time constant in seconds.
func (c *Compressor) SetRelease(seconds float64) error {
	if seconds <= 0 || !core.IsFinite(seconds) {
		return core.InvalidParameter("compressor release", seconds, "must be > 0 s")
	}
	c.release = seconds
	c.updateTimeConstants()
	return nil
}

// Threshold returns the current threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Knee returns the current knee width in dB.
func (c *Compressor) Knee() float64 { return c.kneeDB }

// Attack returns the attack time constant in seconds.
func (c *Compressor) Attack() float64 { return c.attack }

// Release returns the release time constant in seconds.
func (c *Compressor) Release() float64 { return c.release }

// SampleRate returns the sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// GainReductionDB returns the reduction applied to the most recent sample,
// in dB (0 when idle, negative while compressing).
func (c *Compressor) GainReductionDB() float64 { return c.gainReductionDB }

// ProcessSample processes one sample through the compressor.
func (c *Compressor) ProcessSample(input float64) float64 {
	level := math.Abs(input)

	coeff := c.releaseCoeff
	if level > c.envelope {
		coeff = c.attackCoeff
	}
	c.envelope = coeff*c.envelope + (1-coeff)*level

	reductionDB := c.gainReductionFor(c.envelope)
	c.gainReductionDB = reductionDB

	output := input
	if reductionDB < 0 {
		output = input * core.DBToLinear(reductionDB)
	}

	c.updateMetrics(level, math.Abs(output), reductionDB)
	return output
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// CalculateOutputLevel computes the steady-state output level for a given
// input magnitude. This allows visualizing the compression curve.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	return inputMagnitude * core.DBToLinear(c.gainReductionFor(inputMagnitude))
}

// Reset clears the envelope follower and metrics.
func (c *Compressor) Reset() {
	c.envelope = 0
	c.gainReductionDB = 0
	c.metrics = CompressorMetrics{}
}

// GetMetrics returns current metering values.
func (c *Compressor) GetMetrics() CompressorMetrics {
	return c.metrics
}

// ResetMetrics clears metering state.
func (c *Compressor) ResetMetrics() {
	c.metrics = CompressorMetrics{}
}

// updateTimeConstants recalculates the one-pole smoothing coefficients,
// exp(-1 / (sampleRate * T)).
func (c *Compressor) updateTimeConstants() {
	c.attackCoeff = math.Exp(-1 / (c.sampleRate * c.attack))
	c.releaseCoeff = math.Exp(-1 / (c.sampleRate * c.release))
}

// gainReductionFor returns the static gain computer output for an envelope
// level, as a non-positive dB value.
func (c *Compressor) gainReductionFor(level float64) float64 {
	if level <= 0 {
		return 0
	}

	x := core.LinearToDB(level)
	return c.staticCurve(x) - x
}

// staticCurve maps an input level in dB to the compressed output level in dB.
func (c *Compressor) staticCurve(x float64) float64 {
	overshoot := x - c.thresholdDB
	halfWidth := c.kneeDB / 2

	switch {
	case 2*overshoot < -c.kneeDB:
		return x
	case c.kneeDB > 0 && math.Abs(overshoot) <= halfWidth:
		scratch := overshoot + halfWidth
		return x + (1/c.ratio-1)*scratch*scratch/(2*c.kneeDB)
	default:
		return c.thresholdDB + overshoot/c.ratio
	}
}

func (c *Compressor) updateMetrics(inputLevel, outputLevel, reductionDB float64) {
	if inputLevel > c.metrics.InputPeak {
		c.metrics.InputPeak = inputLevel
	}
	if outputLevel > c.metrics.OutputPeak {
		c.metrics.OutputPeak = outputLevel
	}
	if reductionDB < c.metrics.GainReductionDB {
		c.metrics.GainReductionDB = reductionDB
	}
}
