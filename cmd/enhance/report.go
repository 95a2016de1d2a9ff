package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/measure/loudness"
)

func formatLevel(v float64, unit string) string {
	if math.IsInf(v, -1) || v <= loudness.FloorLUFS {
		return "-inf " + unit
	}

	return fmt.Sprintf("%.1f %s", v, unit)
}

func writeLoudnessComparison(w io.Writer, in, out *buffer.Buffer) error {
	before, err := loudness.Measure(in)
	if err != nil {
		return err
	}

	after, err := loudness.Measure(out)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tINPUT\tOUTPUT")
	fmt.Fprintf(tw, "integrated\t%s\t%s\n",
		formatLevel(before.IntegratedLUFS, "LUFS"), formatLevel(after.IntegratedLUFS, "LUFS"))
	fmt.Fprintf(tw, "max momentary\t%s\t%s\n",
		formatLevel(before.MaxMomentaryLUFS, "LUFS"), formatLevel(after.MaxMomentaryLUFS, "LUFS"))
	fmt.Fprintf(tw, "sample peak\t%s\t%s\n",
		formatLevel(before.SamplePeakDBFS, "dBFS"), formatLevel(after.SamplePeakDBFS, "dBFS"))

	return tw.Flush()
}
