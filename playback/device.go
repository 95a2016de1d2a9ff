package playback

import (
	"errors"
	"io"
	"time"
)

// ErrDevice wraps failures reported by a Device. The scheduler never retries.
var ErrDevice = errors.New("playback: device error")

// Device is an audio output. Implementations stream interleaved float32
// little-endian frames pulled from src at the source buffer's sample rate and
// channel count.
type Device interface {
	// Start begins pulling from src. It must not block on src.
	Start(src io.Reader) error
	// Stop ends streaming and releases the output.
	Stop() error
	// Clock is a monotonic device time.
	Clock() time.Duration
}
