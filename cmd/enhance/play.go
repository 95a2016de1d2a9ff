package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/internal/audiofile"
	"github.com/cwbudde/algo-enhance/playback"
	"github.com/cwbudde/algo-enhance/playback/otodevice"
	"github.com/cwbudde/algo-enhance/render"
)

const progressInterval = 100 * time.Millisecond

// PlayCmd auditions a file on the default output until it ends or the
// command is interrupted.
type PlayCmd struct {
	ChainFlags `embed:""`

	Input    string  `arg:"" type:"existingfile" help:"WAV file to play."`
	Original bool    `help:"Play the unprocessed input even if a chain is selected."`
	Start    float64 `help:"Start position in seconds."`
	Volume   float64 `default:"1" help:"Volume in [0,1]."`
}

// Run plays the selected buffer.
func (c *PlayCmd) Run(g *Globals) error {
	src, err := c.source(g)
	if err != nil {
		return err
	}

	dev, err := otodevice.New(g.Ctx, src.SampleRate(), src.NumChannels(), g.Log)
	if err != nil {
		return err
	}

	s, err := playback.NewScheduler(src, dev,
		playback.WithLogger(g.Log),
		playback.WithVolume(c.Volume),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Seek(c.Start)

	if err := s.Play(); err != nil {
		return err
	}

	watchProgress(g.Ctx, s, g.Out, progressInterval)

	return nil
}

// snapshotter is the read-only view the progress loop needs. The end of the
// buffer is detected on the device side.
type snapshotter interface {
	Snapshot() playback.Snapshot
}

// watchProgress prints the transport position every interval until
// playback stops or ctx is done.
func watchProgress(ctx context.Context, s snapshotter, out io.Writer, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return
		case <-ticker.C:
			snap := s.Snapshot()
			fmt.Fprintf(out, "\r%s %7.2f / %.2f s", snap.State, snap.Position, snap.Duration)

			if snap.State == playback.Stopped {
				fmt.Fprintln(out)
				return
			}
		}
	}
}

func (c *PlayCmd) source(g *Globals) (*buffer.Buffer, error) {
	in, err := audiofile.Load(c.Input)
	if err != nil {
		return nil, err
	}

	req, err := c.request()
	if err != nil {
		return nil, err
	}

	if c.Original || (req.Preset == "" && req.Manual == nil && req.Stages == nil) {
		return in, nil
	}

	g.Log.WithFields(logrus.Fields{
		"function": "PlayCmd.source",
		"preset":   req.Preset,
	}).Debug("Rendering before playback")

	return render.RenderContext(g.Ctx, in, req, render.WithLogger(g.Log))
}
