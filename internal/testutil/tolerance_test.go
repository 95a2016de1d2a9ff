package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
)

// recorder captures Fatalf instead of stopping the test.
type recorder struct {
	testing.TB
	failed bool
	msg    string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.msg = fmt.Sprintf(format, args...)
}

func TestMaxAbsDiff(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantIdx int
	}{
		{"equal", []float64{1, 2}, []float64{1, 2}, 0, 0},
		{"worst index", []float64{1, 2, 3}, []float64{1.5, 2, 2}, 1, 2},
		{"length", []float64{1, 2}, []float64{1}, math.Inf(1), 1},
		{"empty", nil, nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, i := MaxAbsDiff(tt.a, tt.b)
			if d != tt.want || i != tt.wantIdx {
				t.Fatalf("MaxAbsDiff = (%v, %d), want (%v, %d)", d, i, tt.want, tt.wantIdx)
			}
		})
	}

	if d, i := MaxAbsDiff([]float64{0, math.NaN()}, []float64{0, 0}); !math.IsNaN(d) || i != 1 {
		t.Fatalf("NaN diff = (%v, %d), want (NaN, 1)", d, i)
	}
}

func TestRequireNearlyEqual(t *testing.T) {
	tests := []struct {
		name     string
		got      []float64
		want     []float64
		eps      float64
		wantFail bool
	}{
		{"within", []float64{1, 2}, []float64{1.05, 2}, 0.1, false},
		{"outside", []float64{1, 2}, []float64{1, 2.5}, 0.1, true},
		{"length", []float64{1}, []float64{1, 2}, 1, true},
		{"nan", []float64{math.NaN()}, []float64{0}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{TB: t}
			RequireNearlyEqual(rec, tt.got, tt.want, tt.eps)

			if rec.failed != tt.wantFail {
				t.Fatalf("failed = %v, want %v (%s)", rec.failed, tt.wantFail, rec.msg)
			}
		})
	}
}

func TestRequireBufferNearlyEqual(t *testing.T) {
	a := DCBuffer(t, 8000, 2, 4, 0.5)

	rec := &recorder{TB: t}
	RequireBufferNearlyEqual(rec, a, a.Clone(), 0)
	if rec.failed {
		t.Fatalf("identical buffers failed: %s", rec.msg)
	}

	b := a.Clone()
	b.Channel(1)[3] = 0.6
	RequireBufferNearlyEqual(rec, a, b, 0.05)
	if !rec.failed || rec.msg == "" {
		t.Fatal("differing sample should fail")
	}

	rec = &recorder{TB: t}
	RequireBufferNearlyEqual(rec, a, DCBuffer(t, 16000, 2, 4, 0.5), 1)
	if !rec.failed {
		t.Fatal("sample rate mismatch should fail")
	}
}

func TestRequireBufferFinite(t *testing.T) {
	buf, err := buffer.FromChannels([][]float64{{0, 1}, {math.Inf(-1), 0}}, 8000)
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{TB: t}
	RequireBufferFinite(rec, buf)
	if !rec.failed {
		t.Fatal("Inf sample should fail")
	}

	rec = &recorder{TB: t}
	RequireBufferFinite(rec, SineBuffer(t, 100, 8000, 2, 64, 1))
	if rec.failed {
		t.Fatalf("finite buffer failed: %s", rec.msg)
	}
}
