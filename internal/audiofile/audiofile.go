// Package audiofile moves buffers between WAV files and memory.
//
// Loading accepts every encoding github.com/cwbudde/wav decodes (integer
// PCM of any width, IEEE float, A-law, mu-law). Saving writes 16-bit PCM
// through codec/pcm by default, or wider integer PCM through the wav
// encoder.
package audiofile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-enhance/codec/pcm"
	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Load decodes the WAV file at path.
func Load(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("audiofile: %s: %w", path, pcm.ErrMalformedContainer)
	}

	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: %s: %w: %w", path, pcm.ErrMalformedContainer, err)
	}

	if pb == nil || pb.Format == nil || pb.Format.NumChannels < 1 || pb.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("audiofile: %s: %w: missing format", path, pcm.ErrMalformedContainer)
	}

	data := make([]float64, len(pb.Data)-len(pb.Data)%pb.Format.NumChannels)
	for i := range data {
		data[i] = float64(pb.Data[i])
	}

	buf, err := buffer.FromInterleaved(data, pb.Format.NumChannels, pb.Format.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %s: %w", path, err)
	}

	return buf, nil
}

// Save writes buf to path as 16-bit PCM, creating parent directories.
func Save(path string, buf *buffer.Buffer) error {
	return SaveDepth(path, buf, pcm.BitsPerSample)
}

// SaveDepth writes buf as integer PCM of the given bit depth (16, 24 or 32).
func SaveDepth(path string, buf *buffer.Buffer, bitDepth int) error {
	if buf == nil {
		return fmt.Errorf("audiofile: %w: nil buffer", core.ErrInvalidInput)
	}

	switch bitDepth {
	case 16, 24, 32:
	default:
		return core.InvalidParameter("bit depth", bitDepth, "must be 16, 24 or 32")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	if bitDepth == pcm.BitsPerSample {
		err = pcm.Write(f, buf)
	} else {
		err = writeWide(f, buf, bitDepth)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return fmt.Errorf("audiofile: %s: %w", path, err)
	}

	return nil
}

func writeWide(f *os.File, buf *buffer.Buffer, bitDepth int) error {
	interleaved := buf.Interleaved()

	data := make([]float32, len(interleaved))
	for i, v := range interleaved {
		data[i] = float32(core.Clamp(v, -1, 1))
	}

	enc := wav.NewEncoder(f, buf.SampleRate(), bitDepth, buf.NumChannels(), 1)

	err := enc.Write(&audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  buf.SampleRate(),
			NumChannels: buf.NumChannels(),
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if cerr := enc.Close(); err == nil {
		err = cerr
	}

	return err
}
