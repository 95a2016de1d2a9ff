package pcm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Encoder writes containers to an io.Writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one complete container for buf.
func (e *Encoder) Encode(buf *buffer.Buffer) error {
	if buf == nil {
		return fmt.Errorf("pcm: %w: nil buffer", core.ErrInvalidInput)
	}

	if err := checkShape(buf.NumChannels(), buf.SampleRate()); err != nil {
		return err
	}

	dataSize := uint64(buf.Frames()) * uint64(buf.NumChannels()) * bytesPerSample
	if dataSize+HeaderSize-8 > math.MaxUint32 {
		return fmt.Errorf("%w: %d data bytes exceed the 32-bit RIFF size", ErrUnsupportedFormat, dataSize)
	}

	if _, err := e.w.Write(header(buf.NumChannels(), buf.SampleRate(), uint32(dataSize))); err != nil {
		return fmt.Errorf("pcm: write header: %w", err)
	}

	// Frames are interleaved in chunks to bound the scratch allocation.
	const chunkFrames = 4096

	channels := buf.Channels()
	scratch := make([]byte, chunkFrames*len(channels)*bytesPerSample)

	for start := 0; start < buf.Frames(); start += chunkFrames {
		end := min(start+chunkFrames, buf.Frames())

		n := 0
		for i := start; i < end; i++ {
			for _, ch := range channels {
				binary.LittleEndian.PutUint16(scratch[n:], uint16(Quantize(ch[i])))
				n += bytesPerSample
			}
		}

		if _, err := e.w.Write(scratch[:n]); err != nil {
			return fmt.Errorf("pcm: write samples: %w", err)
		}
	}

	return nil
}

// Write encodes buf to w.
func Write(w io.Writer, buf *buffer.Buffer) error {
	return NewEncoder(w).Encode(buf)
}

// Encode returns the container bytes for buf.
func Encode(buf *buffer.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if buf != nil {
		out.Grow(HeaderSize + buf.Frames()*buf.NumChannels()*bytesPerSample)
	}

	if err := Write(&out, buf); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// checkShape rejects shapes whose header fields would not fit: channel count
// and block align are 16-bit, sample rate and byte rate 32-bit.
func checkShape(channels, sampleRate int) error {
	blockAlign := uint64(channels) * bytesPerSample
	if blockAlign > math.MaxUint16 {
		return fmt.Errorf("%w: %d channels exceed the 16-bit block align", ErrUnsupportedFormat, channels)
	}

	if uint64(sampleRate)*blockAlign > math.MaxUint32 {
		return fmt.Errorf("%w: %d Hz with %d channels exceeds the 32-bit byte rate",
			ErrUnsupportedFormat, sampleRate, channels)
	}

	return nil
}

func header(channels, sampleRate int, dataSize uint32) []byte {
	blockAlign := channels * bytesPerSample
	byteRate := sampleRate * blockAlign

	h := make([]byte, HeaderSize)
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], HeaderSize-8+dataSize)
	copy(h[8:], "WAVE")
	copy(h[12:], "fmt ")
	binary.LittleEndian.PutUint32(h[16:], fmtChunkSize)
	binary.LittleEndian.PutUint16(h[20:], formatPCM)
	binary.LittleEndian.PutUint16(h[22:], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:], BitsPerSample)
	copy(h[36:], "data")
	binary.LittleEndian.PutUint32(h[40:], dataSize)

	return h
}
