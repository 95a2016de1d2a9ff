package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
)

// MaxAbsDiff returns the largest |a[i]-b[i]| and its index. Slices of
// different length compare as +Inf at the first index past the shorter one.
func MaxAbsDiff(a, b []float64) (float64, int) {
	if len(a) != len(b) {
		return math.Inf(1), min(len(a), len(b))
	}

	worst, at := 0.0, 0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > worst || math.IsNaN(d) {
			worst, at = d, i
			if math.IsNaN(d) {
				break
			}
		}
	}

	return worst, at
}

// RequireNearlyEqual fails tb when got and want differ in length or any
// sample pair is further apart than eps. The worst sample is reported.
func RequireNearlyEqual(tb testing.TB, got, want []float64, eps float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length: got %d, want %d", len(got), len(want))
		return
	}

	if d, i := MaxAbsDiff(got, want); d > eps || math.IsNaN(d) {
		tb.Fatalf("sample %d: got %v, want %v (diff %g > %g)", i, got[i], want[i], d, eps)
	}
}

// RequireBufferNearlyEqual fails tb when the buffers differ in shape or any
// sample is further than eps from its counterpart.
func RequireBufferNearlyEqual(tb testing.TB, got, want *buffer.Buffer, eps float64) {
	tb.Helper()

	if !got.SameShape(want) {
		tb.Fatalf("shape: got %dx%d@%d, want %dx%d@%d",
			got.NumChannels(), got.Frames(), got.SampleRate(),
			want.NumChannels(), want.Frames(), want.SampleRate())
		return
	}

	for ch := range got.NumChannels() {
		g, w := got.Channel(ch), want.Channel(ch)
		if d, i := MaxAbsDiff(g, w); d > eps || math.IsNaN(d) {
			tb.Fatalf("channel %d frame %d: got %v, want %v (diff %g > %g)", ch, i, g[i], w[i], d, eps)
			return
		}
	}
}

// RequireBufferFinite fails tb on the first NaN or Inf sample in buf.
func RequireBufferFinite(tb testing.TB, buf *buffer.Buffer) {
	tb.Helper()

	for ch, samples := range buf.Channels() {
		for i, v := range samples {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				tb.Fatalf("channel %d frame %d: non-finite sample %v", ch, i, v)
				return
			}
		}
	}
}
