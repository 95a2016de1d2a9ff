package effectchain

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
)

// Chain is an ordered list of live stages built for one channel count. The
// order is the order of the specs and is never changed. Execution is
// block-sequential: stage n+1 starts only after stage n has processed the
// whole buffer.
type Chain struct {
	channels int
	specs    []StageSpec
	stages   []Stage
}

// Validate checks every spec against sampleRate and reports the first
// failure together with its position.
func Validate(specs []StageSpec, sampleRate float64) error {
	for i, s := range specs {
		if s == nil {
			return fmt.Errorf("effectchain: stage %d: %w", i, errNilSpec)
		}

		err := s.Validate(sampleRate)
		if err != nil {
			return fmt.Errorf("effectchain: stage %d (%s): %w", i, s.Kind(), err)
		}
	}

	return nil
}

// Build validates specs and turns them into live stages.
func Build(ctx Context, specs []StageSpec, channels int) (*Chain, error) {
	if err := checkBuildChannels(channels); err != nil {
		return nil, err
	}

	if err := Validate(specs, ctx.SampleRate); err != nil {
		return nil, err
	}

	c := &Chain{
		channels: channels,
		specs:    append([]StageSpec(nil), specs...),
		stages:   make([]Stage, 0, len(specs)),
	}

	for i, s := range specs {
		st, err := s.Build(ctx, channels)
		if err != nil {
			return nil, fmt.Errorf("effectchain: stage %d (%s): %w", i, s.Kind(), err)
		}

		c.stages = append(c.stages, st)
	}

	return c, nil
}

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// NumChannels returns the channel count the chain was built for.
func (c *Chain) NumChannels() int { return c.channels }

// Spec returns the spec of stage i.
func (c *Chain) Spec(i int) StageSpec { return c.specs[i] }

// Stage returns the live stage i.
func (c *Chain) Stage(i int) Stage { return c.stages[i] }

// Process runs every stage over buf in order.
func (c *Chain) Process(buf *buffer.Buffer) error {
	return c.ProcessContext(context.Background(), buf)
}

// ProcessContext runs every stage over buf in order and checks ctx before
// each stage. A cancelled context stops processing and returns ctx.Err().
func (c *Chain) ProcessContext(ctx context.Context, buf *buffer.Buffer) error {
	for i := range c.stages {
		if err := c.ProcessStage(ctx, i, buf); err != nil {
			return err
		}
	}

	return nil
}

// ProcessStage runs stage i over buf after checking ctx.
func (c *Chain) ProcessStage(ctx context.Context, i int, buf *buffer.Buffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.stages[i].Process(buf)
	if err != nil {
		return fmt.Errorf("effectchain: stage %d (%s): %w", i, c.specs[i].Kind(), err)
	}

	return nil
}
