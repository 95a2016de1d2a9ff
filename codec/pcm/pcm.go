// Package pcm encodes and decodes the canonical 16-bit PCM RIFF/WAVE
// container: a 44-byte little-endian header followed by interleaved signed
// 16-bit samples.
//
// Samples are clipped to [-1, 1] and scaled asymmetrically: negative values
// by 0x8000 and positive values by 0x7FFF, rounding to nearest. Decoding
// inverts the same scale, so a round trip is exact to within one
// quantization step.
package pcm

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// HeaderSize is the length of the canonical header written by Encode.
const HeaderSize = 44

// BitsPerSample is the only sample width this codec reads or writes.
const BitsPerSample = 16

const (
	formatPCM       = 1
	bytesPerSample  = BitsPerSample / 8
	negScale        = 0x8000
	posScale        = 0x7FFF
	fmtChunkSize    = 16
	riffHeaderBytes = 12
	chunkHeaderSize = 8
)

var (
	// ErrMalformedContainer reports bad tags, inconsistent chunk sizes or
	// truncated sample data.
	ErrMalformedContainer = errors.New("pcm: malformed container")

	// ErrUnsupportedFormat reports a well-formed container this codec does
	// not handle, such as float or 24-bit samples.
	ErrUnsupportedFormat = errors.New("pcm: unsupported format")
)

// Quantize converts one sample to int16 using the codec's scaling. NaN maps
// to 0.
func Quantize(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}

	v = core.Clamp(v, -1, 1)
	if v < 0 {
		return int16(math.Round(v * negScale))
	}

	return int16(math.Round(v * posScale))
}

// Dequantize converts one int16 sample back to [-1, 1].
func Dequantize(s int16) float64 {
	if s < 0 {
		return float64(s) / negScale
	}

	return float64(s) / posScale
}
