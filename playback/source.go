package playback

import (
	"encoding/binary"
	"io"
	"math"
	"time"
)

// rampFloor is the distance to the target at which a ramp snaps onto it.
const rampFloor = 1e-4

// volumeRamp is a one-pole exponential glide that settles within the
// configured ramp time.
type volumeRamp struct {
	gain  float64
	coeff float64
}

func newVolumeRamp(d time.Duration, sampleRate float64) volumeRamp {
	n := d.Seconds() * sampleRate
	if n <= 1 {
		return volumeRamp{coeff: 1}
	}

	return volumeRamp{coeff: 1 - math.Pow(rampFloor, 1/n)}
}

func (r *volumeRamp) next(target float64) float64 {
	if math.Abs(target-r.gain) <= rampFloor {
		r.gain = target
	} else {
		r.gain += (target - r.gain) * r.coeff
	}

	return r.gain
}

func (r *volumeRamp) silence() { r.gain = 0 }

// Fill writes interleaved frames into out, len(out)/channels of them, and
// returns the number of samples written. Frames outside Playing are silent.
// A pause, stop, seek or restart first fades the interrupted stream out over
// the ramp time. Fill advances the read cursor and performs the
// end-of-buffer transition.
func (s *Scheduler) Fill(out []float64) int {
	n, _ := s.fill(out)
	return n
}

func (s *Scheduler) fill(out []float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false
	}

	channels := s.source.Channels()
	nch := len(channels)
	frames := len(out) / nch
	total := s.source.Frames()

	for i := range frames {
		frame := out[i*nch : (i+1)*nch]

		if s.fading {
			g := s.ramp.next(0)
			if s.tail < total {
				for ch, samples := range channels {
					frame[ch] = samples[s.tail] * g
				}
				s.tail++
			} else {
				clear(frame)
			}
			s.fading = g > 0

			continue
		}

		g := s.ramp.next(s.targetGain())

		if s.state != Playing || s.cursor >= total {
			clear(frame)
			continue
		}

		for ch, samples := range channels {
			frame[ch] = samples[s.cursor] * g
		}
		s.cursor++
	}

	s.tickLocked()

	return frames * nch, true
}

// source adapts the scheduler to the float32 little-endian byte stream a
// Device consumes.
type source struct {
	s       *Scheduler
	scratch []float64
}

const bytesPerSample = 4

func (r *source) Read(p []byte) (int, error) {
	nch := r.s.source.NumChannels()
	frames := len(p) / (bytesPerSample * nch)
	if frames == 0 {
		return 0, nil
	}

	if cap(r.scratch) < frames*nch {
		r.scratch = make([]float64, frames*nch)
	}
	samples := r.scratch[:frames*nch]

	n, open := r.s.fill(samples)
	if !open {
		return 0, io.EOF
	}

	for i, v := range samples[:n] {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(float32(v)))
	}

	return n * bytesPerSample, nil
}
