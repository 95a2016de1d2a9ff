package spatial

import (
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Panner moves a stereo image left or right with an equal-power law.
//
// For pan p <= 0 the right input is folded into the left output with gain
// cos(x*pi/2) and the right output keeps sin(x*pi/2) of the right input,
// where x = p+1. For p > 0 the roles are mirrored with x = p. Pan 0 is an
// exact pass-through. The panner is stateless.
type Panner struct {
	pan   float64
	gainL float64
	gainR float64
}

// NewPanner creates a panner for pan in [-1, 1] (-1 = hard left).
func NewPanner(pan float64) (*Panner, error) {
	p := &Panner{}
	if err := p.SetPan(pan); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPan updates the pan position.
func (p *Panner) SetPan(pan float64) error {
	if pan < -1 || pan > 1 || !core.IsFinite(pan) {
		return core.InvalidParameter("pan", pan, "must be in [-1, 1]")
	}

	x := pan
	if pan <= 0 {
		x = pan + 1
	}

	p.pan = pan
	p.gainL = math.Cos(x * math.Pi / 2)
	p.gainR = math.Sin(x * math.Pi / 2)

	return nil
}

// Pan returns the pan position.
func (p *Panner) Pan() float64 { return p.pan }

// ProcessStereo pans one stereo frame.
func (p *Panner) ProcessStereo(left, right float64) (float64, float64) {
	switch {
	case p.pan == 0:
		return left, right
	case p.pan < 0:
		return left + right*p.gainL, right * p.gainR
	default:
		return left * p.gainL, right + left*p.gainR
	}
}

// ProcessInPlace pans the stereo pair left/right in place. Both slices must
// have the same length.
func (p *Panner) ProcessInPlace(left, right []float64) {
	if p.pan == 0 {
		return
	}

	n := min(len(left), len(right))
	for i := range n {
		left[i], right[i] = p.ProcessStereo(left[i], right[i])
	}
}
