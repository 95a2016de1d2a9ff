package loudness_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-enhance/measure/loudness"
)

func ExampleMeter() {
	const fs = 48000.0

	m, err := loudness.NewMeter(
		loudness.WithSampleRate(fs),
		loudness.WithChannels(1),
	)
	if err != nil {
		panic(err)
	}

	// 4 s of a 1 kHz sine at -6.02 dBFS.
	sig := make([]float64, int(fs*4))
	for i := range sig {
		sig[i] = 0.5 * math.Sin(2*math.Pi*1000.0/fs*float64(i))
	}

	m.StartIntegration()
	m.ProcessInterleaved(sig)

	fmt.Printf("Momentary: %.1f LUFS\n", m.Momentary())
	fmt.Printf("Short-term: %.1f LUFS\n", m.ShortTerm())
	fmt.Printf("Integrated: %.1f LUFS\n", m.Integrated())

	// Output:
	// Momentary: -9.1 LUFS
	// Short-term: -9.1 LUFS
	// Integrated: -9.2 LUFS
}
