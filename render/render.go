// Package render runs a composed effect chain over a whole buffer offline.
//
// A render call never mutates its input. It validates the request against
// the buffer's sample rate before allocating, then deep-copies the input
// and runs every stage over the copy in order. On failure it returns no
// buffer at all.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/effectchain"
	"github.com/cwbudde/algo-enhance/preset"
)

// Request selects the chain to run. Exactly one of Preset, Manual or Stages
// must be set.
type Request struct {
	Preset string
	Manual *preset.ManualParams
	Stages []effectchain.StageSpec
}

// Specs resolves the request into its stage list.
func (r Request) Specs() ([]effectchain.StageSpec, error) {
	set := 0
	if r.Preset != "" {
		set++
	}
	if r.Manual != nil {
		set++
	}
	if r.Stages != nil {
		set++
	}

	switch {
	case set == 0:
		return nil, fmt.Errorf("render: %w: no preset, manual params or stages given", core.ErrInvalidInput)
	case set > 1:
		return nil, fmt.Errorf("render: %w: preset, manual params and stages are mutually exclusive", core.ErrInvalidInput)
	}

	switch {
	case r.Preset != "":
		return preset.Lookup(r.Preset)
	case r.Manual != nil:
		return preset.Compose(*r.Manual)
	default:
		return r.Stages, nil
	}
}

// Render applies req to buf and returns a new buffer.
func Render(buf *buffer.Buffer, req Request, opts ...Option) (*buffer.Buffer, error) {
	return RenderContext(context.Background(), buf, req, opts...)
}

// RenderContext is Render with cooperative cancellation between stages. A
// cancelled render returns ctx.Err() and no buffer.
func RenderContext(ctx context.Context, buf *buffer.Buffer, req Request, opts ...Option) (*buffer.Buffer, error) {
	cfg := applyOptions(opts)
	log := cfg.logger.WithFields(logrus.Fields{"function": "Render"})

	if buf == nil {
		return nil, fmt.Errorf("render: %w: nil buffer", core.ErrInvalidInput)
	}

	specs, err := req.Specs()
	if err != nil {
		log.WithError(err).Warn("Rejected render request")
		return nil, err
	}

	sr := float64(buf.SampleRate())
	if err := effectchain.Validate(specs, sr); err != nil {
		log.WithError(err).Warn("Rejected stage parameters")
		return nil, fmt.Errorf("render: %w", err)
	}

	chain, err := effectchain.Build(
		effectchain.NewContext(core.WithSampleRate(sr), core.WithBlockSize(cfg.blockSize)),
		specs, buf.NumChannels(),
	)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	log.WithFields(logrus.Fields{
		"preset":      req.Preset,
		"stages":      chain.Len(),
		"channels":    buf.NumChannels(),
		"frames":      buf.Frames(),
		"sample_rate": buf.SampleRate(),
	}).Debug("Rendering")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	out := buf.Clone()

	for i := range chain.Len() {
		if err := chain.ProcessStage(ctx, i, out); err != nil {
			log.WithFields(logrus.Fields{
				"stage": i,
				"kind":  chain.Spec(i).Kind(),
				"error": err.Error(),
			}).Error("Render failed")

			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"elapsed": time.Since(start),
		"peak":    out.Peak(),
	}).Debug("Render finished")

	return out, nil
}
