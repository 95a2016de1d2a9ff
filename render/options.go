package render

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

type config struct {
	logger    *logrus.Entry
	blockSize int
}

// Option configures a render call.
type Option func(*config)

func defaultConfig() config {
	return config{
		logger:    logrus.NewEntry(logrus.StandardLogger()),
		blockSize: core.DefaultBlockSize,
	}
}

// WithLogger routes render logging through l. A nil entry is ignored.
func WithLogger(l *logrus.Entry) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBlockSize sets the scratch block length used by stages that process
// in chunks. Non-positive values are ignored.
func WithBlockSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.blockSize = n
		}
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
