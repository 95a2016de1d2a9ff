package effects

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Gain multiplies samples by a constant factor.
type Gain struct {
	db     float64
	linear float64
}

// NewGain creates a gain stage from a level in dB.
func NewGain(db float64) (*Gain, error) {
	if !core.IsFinite(db) {
		return nil, core.InvalidParameter("gain", db, "must be finite")
	}

	return &Gain{db: db, linear: core.DBToLinear(db)}, nil
}

// DB returns the gain in dB.
func (g *Gain) DB() float64 { return g.db }

// Linear returns the linear gain factor.
func (g *Gain) Linear() float64 { return g.linear }

// ProcessInPlace scales buf in place.
func (g *Gain) ProcessInPlace(buf []float64) {
	if g.linear == 1 {
		return
	}

	vecmath.ScaleBlock(buf, buf, g.linear)
}

// Ramp is an exponential gain ramp, linear in dB, between two positive
// linear gains over a fixed number of frames. After the ramp completes it
// holds the target gain. The last ramp sample lands exactly on the target.
//
// A Ramp advances one position per frame regardless of channel count, so a
// single Ramp drives all channels of a buffer with the same curve.
type Ramp struct {
	from   float64
	to     float64
	frames int
	pos    int
	logK   float64
}

// NewRamp creates a ramp from linear gain from to linear gain to over frames
// samples. Both gains must be positive and finite; frames must be >= 0. A
// zero-length ramp starts at the target.
func NewRamp(from, to float64, frames int) (*Ramp, error) {
	if from <= 0 || !core.IsFinite(from) {
		return nil, core.InvalidParameter("ramp start gain", from, "must be > 0 and finite")
	}
	if to <= 0 || !core.IsFinite(to) {
		return nil, core.InvalidParameter("ramp target gain", to, "must be > 0 and finite")
	}
	if frames < 0 {
		return nil, core.InvalidParameter("ramp length", frames, "must be >= 0")
	}

	r := &Ramp{from: from, to: to, frames: frames}
	if frames > 0 {
		r.logK = math.Log(to/from) / float64(frames)
	}

	return r, nil
}

// NewRampDB is NewRamp with both gains given in dB.
func NewRampDB(fromDB, toDB float64, frames int) (*Ramp, error) {
	if !core.IsFinite(fromDB) {
		return nil, core.InvalidParameter("ramp start gain", fromDB, "must be finite")
	}
	if !core.IsFinite(toDB) {
		return nil, core.InvalidParameter("ramp target gain", toDB, "must be finite")
	}

	return NewRamp(core.DBToLinear(fromDB), core.DBToLinear(toDB), frames)
}

// Target returns the linear gain the ramp settles on.
func (r *Ramp) Target() float64 { return r.to }

// Frames returns the ramp length in frames.
func (r *Ramp) Frames() int { return r.frames }

// Done reports whether the ramp has reached its target.
func (r *Ramp) Done() bool { return r.pos >= r.frames }

// Current returns the gain applied to the most recent frame, or the start
// gain before the first frame.
func (r *Ramp) Current() float64 {
	if r.pos == 0 {
		if r.frames == 0 {
			return r.to
		}
		return r.from
	}
	return r.at(r.pos - 1)
}

// Reset rewinds the ramp to its start.
func (r *Ramp) Reset() {
	r.pos = 0
}

// Next returns the gain for the next frame and advances the ramp.
func (r *Ramp) Next() float64 {
	g := r.at(r.pos)
	if r.pos < r.frames {
		r.pos++
	}
	return g
}

// Fill writes the next len(dst) gains into dst and advances the ramp.
func (r *Ramp) Fill(dst []float64) {
	for i := range dst {
		dst[i] = r.Next()
	}
}

// ProcessChannels applies the ramp to every channel, frame-aligned, using
// scratch chunks of at most blockSize gains. All channels must have the same
// length.
func (r *Ramp) ProcessChannels(channels [][]float64, blockSize int) {
	if len(channels) == 0 {
		return
	}
	if blockSize <= 0 {
		blockSize = core.DefaultBlockSize
	}

	frames := len(channels[0])
	curve := make([]float64, min(blockSize, frames))

	off := 0
	for off < frames && !r.Done() {
		n := min(len(curve), frames-off, r.frames-r.pos)
		r.Fill(curve[:n])

		for _, ch := range channels {
			vecmath.MulBlockInPlace(ch[off:off+n], curve[:n])
		}

		off += n
	}

	if off < frames && r.to != 1 {
		for _, ch := range channels {
			vecmath.ScaleBlock(ch[off:], ch[off:], r.to)
		}
	}
}

func (r *Ramp) at(i int) float64 {
	if i >= r.frames-1 {
		return r.to
	}
	return r.from * math.Exp(r.logK*float64(i+1))
}
