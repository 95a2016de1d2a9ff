// Package otodevice implements playback.Device on the operating system's
// audio output through github.com/hajimehoshi/oto/v2.
//
// oto allows a single context per process, so create one Device and share
// it between sessions of the same sample rate and channel count.
package otodevice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/playback"
)

var errAlreadyStarted = errors.New("otodevice: already streaming")

// Device streams float32 frames to the default output.
type Device struct {
	ctx   *oto.Context
	epoch time.Time
	log   *logrus.Entry

	mu     sync.Mutex
	player oto.Player
}

var _ playback.Device = (*Device)(nil)

// New opens the default output and waits until it is ready or ctx is done.
// A nil logger uses the standard logger.
func New(ctx context.Context, sampleRate, channels int, log *logrus.Entry) (*Device, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithFields(logrus.Fields{
		"function":    "New",
		"sample_rate": sampleRate,
		"channels":    channels,
	})

	if sampleRate <= 0 {
		return nil, core.InvalidParameter("sample rate", float64(sampleRate), "must be > 0")
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("otodevice: %w: %d channels, want 1 or 2", core.ErrInvalidInput, channels)
	}

	octx, ready, err := oto.NewContext(sampleRate, channels, oto.FormatFloat32LE)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to open audio output")
		return nil, fmt.Errorf("%w: %w", playback.ErrDevice, err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	log.Info("Audio output ready")

	return &Device{ctx: octx, epoch: time.Now(), log: log}, nil
}

// Start creates a player on src and starts it.
func (d *Device) Start(src io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		return errAlreadyStarted
	}

	if err := d.ctx.Err(); err != nil {
		return err
	}

	p := d.ctx.NewPlayer(src)
	p.Play()
	d.player = p

	d.log.WithFields(logrus.Fields{"function": "Start"}).Debug("Player started")

	return nil
}

// Stop closes the player. The device can be started again.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}

	err := d.player.Close()
	d.player = nil

	d.log.WithFields(logrus.Fields{"function": "Stop"}).Debug("Player closed")

	return err
}

// Clock returns the time since the device was opened on the monotonic
// clock.
func (d *Device) Clock() time.Duration {
	return time.Since(d.epoch)
}
