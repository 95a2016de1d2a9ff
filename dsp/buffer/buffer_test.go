package buffer

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

func TestNewZeroFilled(t *testing.T) {
	b, err := New(2, 8, 48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.NumChannels() != 2 || b.Frames() != 8 || b.SampleRate() != 48000 {
		t.Fatalf("shape = (%d, %d, %d), want (2, 8, 48000)", b.NumChannels(), b.Frames(), b.SampleRate())
	}
	for ch := 0; ch < b.NumChannels(); ch++ {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("ch %d sample %d = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestNewRejectsInvalidShape(t *testing.T) {
	tests := []struct {
		name       string
		channels   int
		frames     int
		sampleRate int
	}{
		{"no channels", 0, 8, 48000},
		{"negative frames", 1, -1, 48000},
		{"zero rate", 1, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.channels, tt.frames, tt.sampleRate)
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("New() error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestChannelsDoNotOverlap(t *testing.T) {
	b, _ := New(2, 4, 8000)
	b.Channel(0)[3] = 1
	if b.Channel(1)[0] != 0 {
		t.Fatal("writing channel 0 leaked into channel 1")
	}
	ch0 := append(b.Channel(0), 5) // must not clobber channel 1
	_ = ch0
	if b.Channel(1)[0] != 0 {
		t.Fatal("append on channel 0 overwrote channel 1")
	}
}

func TestFromChannelsLengthMismatch(t *testing.T) {
	_, err := FromChannels([][]float64{{1, 2}, {1}}, 44100)
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("FromChannels() error = %v, want ErrInvalidParameter", err)
	}
}

func TestInterleavedRoundTrip(t *testing.T) {
	data := []float64{1, -1, 2, -2, 3, -3}
	b, err := FromInterleaved(data, 2, 44100)
	if err != nil {
		t.Fatalf("FromInterleaved() error = %v", err)
	}
	if b.Frames() != 3 {
		t.Fatalf("Frames() = %d, want 3", b.Frames())
	}
	if b.Channel(1)[2] != -3 {
		t.Fatalf("ch1[2] = %v, want -3", b.Channel(1)[2])
	}
	got := b.Interleaved()
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("Interleaved()[%d] = %v, want %v", i, got[i], data[i])
		}
	}
}

func TestFromInterleavedRejectsRaggedData(t *testing.T) {
	if _, err := FromInterleaved([]float64{1, 2, 3}, 2, 44100); err == nil {
		t.Fatal("expected error for ragged interleaved data")
	}
}

func TestCloneIsDeep(t *testing.T) {
	b, _ := FromChannels([][]float64{{0.1, 0.2}, {0.3, 0.4}}, 8000)
	c := b.Clone()
	if !b.Equal(c) {
		t.Fatal("clone differs from source")
	}
	c.Channel(0)[0] = 9
	if b.Channel(0)[0] != 0.1 {
		t.Fatal("mutating clone changed source")
	}
	if b.Equal(c) {
		t.Fatal("Equal should detect the mutation")
	}
}

func TestEqualIsBitExact(t *testing.T) {
	a, _ := FromChannels([][]float64{{0}}, 8000)
	b, _ := FromChannels([][]float64{{math.Copysign(0, -1)}}, 8000)
	if a.Equal(b) {
		t.Fatal("+0 and -0 must not compare bit-identical")
	}
}

func TestDurationAndFrameAt(t *testing.T) {
	b, _ := New(1, 48000, 48000)
	if b.Duration() != 1 {
		t.Fatalf("Duration() = %v, want 1", b.Duration())
	}
	tests := []struct {
		seconds float64
		want    int
	}{
		{-1, 0},
		{0.5, 24000},
		{2, 48000},
	}
	for _, tt := range tests {
		if got := b.FrameAt(tt.seconds); got != tt.want {
			t.Errorf("FrameAt(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestPeak(t *testing.T) {
	b, _ := FromChannels([][]float64{{0.1, -0.2}, {0.5, -0.9}}, 8000)
	if got := b.Peak(); got != 0.9 {
		t.Fatalf("Peak() = %v, want 0.9", got)
	}
}
