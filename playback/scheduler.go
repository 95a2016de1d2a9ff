package playback

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Scheduler is the playback session for one source buffer. It is safe for
// concurrent use by one control goroutine and one device goroutine.
type Scheduler struct {
	mu sync.Mutex

	source   *buffer.Buffer
	device   Device
	duration float64
	log      *logrus.Entry

	state State
	// position is authoritative unless Playing, where it is derived from
	// refOffset and the device clock.
	position   float64
	refOffset  float64
	refInstant float64

	volume     float64
	lastVolume float64
	muted      bool

	ramp   volumeRamp
	cursor int
	// tail is the outgoing read cursor of an interrupted stream. While
	// fading is set, Fill plays from tail with the ramp gliding to 0 before
	// it resumes at cursor.
	tail    int
	fading  bool
	started bool
	closed  bool
}

// NewScheduler creates a stopped session at position 0 for source. The
// source is shared and must not be modified while the session is alive.
func NewScheduler(source *buffer.Buffer, device Device, opts ...Option) (*Scheduler, error) {
	if source == nil {
		return nil, fmt.Errorf("playback: %w: nil source buffer", core.ErrInvalidInput)
	}
	if device == nil {
		return nil, fmt.Errorf("playback: %w: nil device", core.ErrInvalidInput)
	}

	cfg := applyOptions(opts)

	s := &Scheduler{
		source:     source,
		device:     device,
		duration:   source.Duration(),
		log:        cfg.logger,
		state:      Stopped,
		volume:     cfg.volume,
		lastVolume: 1,
		ramp:       newVolumeRamp(cfg.rampTime, float64(source.SampleRate())),
	}
	if s.volume > 0 {
		s.lastVolume = s.volume
	}

	s.log.WithFields(logrus.Fields{
		"function":    "NewScheduler",
		"channels":    source.NumChannels(),
		"sample_rate": source.SampleRate(),
		"duration":    s.duration,
	}).Debug("Playback session created")

	return s, nil
}

// Source returns the shared source buffer.
func (s *Scheduler) Source() *buffer.Buffer { return s.source }

// Play starts or resumes playback. Playing from Stopped at the end of the
// buffer restarts at 0. The device is started on the first Play; its failure
// leaves the session unchanged and is returned wrapped in ErrDevice.
func (s *Scheduler) Play() error {
	return s.play(false)
}

// Restart plays from position 0 regardless of the current state.
func (s *Scheduler) Restart() error {
	return s.play(true)
}

func (s *Scheduler) play(fromStart bool) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: session closed", ErrDevice)
	}

	if s.state == Playing && !fromStart {
		s.mu.Unlock()
		return nil
	}

	prevState, prevPos := s.state, s.positionLocked()

	pos := prevPos
	if fromStart || pos >= s.duration {
		pos = 0
	}

	s.startLocked(pos)

	needStart := !s.started
	s.started = true
	s.mu.Unlock()

	log := s.log.WithFields(logrus.Fields{
		"function": "Play",
		"position": pos,
		"restart":  fromStart,
	})

	if needStart {
		// Start runs unlocked: the device may pull from the source before
		// it returns.
		if err := s.device.Start(&source{s: s}); err != nil {
			s.mu.Lock()
			s.started = false
			s.state = prevState
			s.position = prevPos
			s.mu.Unlock()

			log.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to start playback device")

			return fmt.Errorf("%w: %w", ErrDevice, err)
		}
	}

	log.Debug("Playback started")

	return nil
}

// Pause freezes the position. It is a no-op unless Playing.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return
	}

	s.position = s.positionLocked()
	s.fadeOutLocked()
	s.state = Paused

	s.log.WithFields(logrus.Fields{
		"function": "Pause",
		"position": s.position,
	}).Debug("Playback paused")
}

// Stop returns to Stopped at position 0. The device keeps running and
// receives silence until Close.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.log.WithFields(logrus.Fields{"function": "Stop"}).Debug("Playback stopped")
}

// Seek moves to t seconds, clamped to [0, duration], keeping the state. A
// seek that lands on the end while Playing stops with the position at the
// end.
func (s *Scheduler) Seek(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.clampPosition(t)

	switch {
	case s.state == Playing && pos >= s.duration:
		s.fadeOutLocked()
		s.state = Stopped
		s.position = s.duration
	case s.state == Playing:
		s.startLocked(pos)
	default:
		s.position = pos
	}

	s.log.WithFields(logrus.Fields{
		"function":  "Seek",
		"requested": t,
		"position":  pos,
		"state":     s.state.String(),
	}).Debug("Seek applied")
}

// SetVolume sets the volume, clamped to [0, 1]. The change is ramped.
func (s *Scheduler) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(v)
	if s.volume > 0 {
		s.lastVolume = s.volume
	}
}

// Mute silences output and remembers the last non-zero volume.
func (s *Scheduler) Mute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.volume > 0 {
		s.lastVolume = s.volume
	}
	s.muted = true
}

// Unmute restores output, and the last non-zero volume if the volume was
// dropped to 0 in between.
func (s *Scheduler) Unmute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = false
	if s.volume == 0 {
		s.volume = s.lastVolume
	}
}

// Snapshot returns the current session state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:    s.state,
		Position: s.positionLocked(),
		Duration: s.duration,
		Volume:   s.volume,
		Muted:    s.muted,
	}
}

// Tick performs the automatic end-of-buffer transition. It is called by the
// device side and reports whether playback just ended.
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tickLocked()
}

// Close stops the device. The session stays readable but cannot play again.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	s.stopLocked()
	started := s.started
	s.started = false
	s.mu.Unlock()

	if !started {
		return nil
	}

	if err := s.device.Stop(); err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "Close",
			"error":    err.Error(),
		}).Error("Failed to stop playback device")

		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	return nil
}

func (s *Scheduler) tickLocked() bool {
	if s.state != Playing || s.positionLocked() < s.duration {
		return false
	}

	s.stopLocked()

	s.log.WithFields(logrus.Fields{
		"function": "Tick",
		"duration": s.duration,
	}).Debug("Reached end of buffer")

	return true
}

func (s *Scheduler) startLocked(pos float64) {
	s.fadeOutLocked()
	s.state = Playing
	s.position = pos
	s.refOffset = pos
	s.refInstant = s.device.Clock().Seconds()
	s.cursor = s.source.FrameAt(pos)
}

func (s *Scheduler) stopLocked() {
	s.fadeOutLocked()
	s.state = Stopped
	s.position = 0
	s.cursor = 0
}

// fadeOutLocked must run before the state or cursor changes. Audible output
// keeps playing from the current cursor until the ramp reaches 0; a stream
// that is already silent only resets the ramp so the next start fades in.
func (s *Scheduler) fadeOutLocked() {
	if s.fading {
		return
	}

	if s.state == Playing && s.ramp.gain > 0 && s.cursor < s.source.Frames() {
		s.tail = s.cursor
		s.fading = true

		return
	}

	s.ramp.silence()
}

// positionLocked derives the playing position from the reference point so
// that it never accumulates rounding drift.
func (s *Scheduler) positionLocked() float64 {
	if s.state != Playing {
		return s.position
	}

	return s.clampPosition(s.refOffset + (s.device.Clock().Seconds() - s.refInstant))
}

func (s *Scheduler) clampPosition(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}

	return core.Clamp(t, 0, s.duration)
}

func (s *Scheduler) targetGain() float64 {
	if s.muted || s.state != Playing {
		return 0
	}

	return s.volume
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return core.Clamp(v, 0, 1)
}
