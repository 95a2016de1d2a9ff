package effectchain

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Normalizer is a two-pass peak normalizer. The first pass finds the
// largest absolute sample across all channels; the second applies one
// uniform gain target/peak to every channel. A silent buffer is left
// untouched with gain 1.
type Normalizer struct {
	channels int
	target   float64
	gain     float64
}

// NewNormalizer creates a normalizer for targetDB dBFS and the given
// channel count.
func NewNormalizer(targetDB float64, channels int) *Normalizer {
	return &Normalizer{
		channels: channels,
		target:   core.DBToLinear(targetDB),
		gain:     1,
	}
}

// Target returns the linear peak target.
func (n *Normalizer) Target() float64 { return n.target }

// Gain returns the factor applied by the most recent Process call.
func (n *Normalizer) Gain() float64 { return n.gain }

// Process implements Stage.
func (n *Normalizer) Process(buf *buffer.Buffer) error {
	if err := checkChannels(KindNormalize, n.channels, buf); err != nil {
		return err
	}

	peak := buf.Peak()
	if peak == 0 {
		n.gain = 1
		return nil
	}

	n.gain = n.target / peak
	for _, ch := range buf.Channels() {
		vecmath.ScaleBlock(ch, ch, n.gain)
	}

	return nil
}
