package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-enhance/preset"
)

// PresetsCmd lists presets or prints one in the preset file format.
type PresetsCmd struct {
	Name string `arg:"" optional:"" help:"Preset to print as JSON."`
}

// Run lists every built-in preset with its stage kinds, or prints Name.
func (c *PresetsCmd) Run(g *Globals) error {
	if c.Name != "" {
		p, err := preset.Builtin(c.Name)
		if err != nil {
			return err
		}

		data, err := p.MarshalJSON()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(g.Out, "%s\n", data)

		return err
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTAGES")

	for _, name := range preset.Names() {
		specs, err := preset.Lookup(name)
		if err != nil {
			return err
		}

		kinds := make([]string, len(specs))
		for i, s := range specs {
			kinds[i] = s.Kind()
		}

		fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(kinds, " > "))
	}

	return tw.Flush()
}
