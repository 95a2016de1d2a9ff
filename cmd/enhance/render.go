package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-enhance/internal/audiofile"
	"github.com/cwbudde/algo-enhance/render"
)

// RenderCmd processes a file offline.
type RenderCmd struct {
	ChainFlags `embed:""`

	Input    string `arg:"" type:"existingfile" help:"Input WAV file."`
	Output   string `arg:"" type:"path" help:"Output WAV file."`
	BitDepth int    `default:"16" help:"Output bit depth: 16, 24 or 32."`
	Report   bool   `help:"Print loudness of input and output."`
}

// Run renders Input into Output.
func (c *RenderCmd) Run(g *Globals) error {
	log := g.Log.WithFields(logrus.Fields{
		"function": "RenderCmd.Run",
		"input":    c.Input,
		"output":   c.Output,
	})

	req, err := c.request()
	if err != nil {
		return err
	}

	in, err := audiofile.Load(c.Input)
	if err != nil {
		return err
	}

	start := time.Now()

	out, err := render.RenderContext(g.Ctx, in, req, render.WithLogger(g.Log))
	if err != nil {
		return err
	}

	if err := audiofile.SaveDepth(c.Output, out, c.BitDepth); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"frames":  out.Frames(),
		"elapsed": time.Since(start).String(),
	}).Info("Rendered file")

	if !c.Report {
		return nil
	}

	return writeLoudnessComparison(g.Out, in, out)
}
