package playback

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRampTime is how long a volume or mute change takes to settle.
const DefaultRampTime = 20 * time.Millisecond

type config struct {
	logger   *logrus.Entry
	rampTime time.Duration
	volume   float64
}

// Option configures a Scheduler.
type Option func(*config)

func defaultConfig() config {
	return config{
		logger:   logrus.NewEntry(logrus.StandardLogger()),
		rampTime: DefaultRampTime,
		volume:   1,
	}
}

// WithLogger routes scheduler logging through l. A nil entry is ignored.
func WithLogger(l *logrus.Entry) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRampTime sets the volume ramp duration. Zero makes volume changes
// immediate; negative values are ignored.
func WithRampTime(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.rampTime = d
		}
	}
}

// WithVolume sets the initial volume, clamped to [0, 1].
func WithVolume(v float64) Option {
	return func(c *config) {
		c.volume = clampVolume(v)
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
