package effectchain

import "github.com/cwbudde/algo-enhance/dsp/core"

// Context provides environmental information that stages need at build time.
type Context struct {
	SampleRate float64
	BlockSize  int
}

// NewContext builds a Context from processor options.
func NewContext(opts ...core.ProcessorOption) Context {
	cfg := core.ApplyProcessorOptions(opts...)

	return Context{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
	}
}
