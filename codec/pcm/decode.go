package pcm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
)

// Format describes the fmt chunk of a container.
type Format struct {
	AudioFormat   uint16
	Channels      int
	SampleRate    int
	ByteRate      int
	BlockAlign    int
	BitsPerSample int
}

// Decode parses a container. The RIFF size must match len(data) and every
// chunk must fit inside it. Chunks other than fmt and data are skipped.
func Decode(data []byte) (*buffer.Buffer, error) {
	f, samples, err := parse(data)
	if err != nil {
		return nil, err
	}

	frames := len(samples) / f.BlockAlign
	channels := make([][]float64, f.Channels)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	n := 0
	for i := range frames {
		for ch := range channels {
			channels[ch][i] = Dequantize(int16(binary.LittleEndian.Uint16(samples[n:])))
			n += bytesPerSample
		}
	}

	buf, err := buffer.FromChannels(channels, f.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedContainer, err)
	}

	return buf, nil
}

// Read reads a whole container from r and decodes it.
func Read(r io.Reader) (*buffer.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pcm: read: %w", err)
	}

	return Decode(data)
}

// ReadFormat parses only the header chunks of data.
func ReadFormat(data []byte) (Format, error) {
	f, _, err := parse(data)
	return f, err
}

func parse(data []byte) (Format, []byte, error) {
	var f Format

	if len(data) < riffHeaderBytes {
		return f, nil, fmt.Errorf("%w: %d bytes is shorter than a RIFF header", ErrMalformedContainer, len(data))
	}

	if string(data[0:4]) != "RIFF" {
		return f, nil, fmt.Errorf("%w: missing RIFF tag", ErrMalformedContainer)
	}
	if string(data[8:12]) != "WAVE" {
		return f, nil, fmt.Errorf("%w: missing WAVE tag", ErrMalformedContainer)
	}

	riffSize := uint64(binary.LittleEndian.Uint32(data[4:]))
	if riffSize+8 != uint64(len(data)) {
		return f, nil, fmt.Errorf("%w: RIFF size %d does not match %d bytes", ErrMalformedContainer, riffSize, len(data))
	}

	var (
		haveFmt bool
		samples []byte
	)

	for off := riffHeaderBytes; off < len(data); {
		if len(data)-off < chunkHeaderSize {
			return f, nil, fmt.Errorf("%w: truncated chunk header at %d", ErrMalformedContainer, off)
		}

		id := string(data[off : off+4])
		size := uint64(binary.LittleEndian.Uint32(data[off+4:]))
		body := off + chunkHeaderSize

		if uint64(body)+size > uint64(len(data)) {
			return f, nil, fmt.Errorf("%w: %q chunk of %d bytes overruns the container", ErrMalformedContainer, id, size)
		}

		chunk := data[body : body+int(size)]

		switch id {
		case "fmt ":
			var err error
			if f, err = parseFmt(chunk); err != nil {
				return f, nil, err
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return f, nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrMalformedContainer)
			}
			if samples != nil {
				return f, nil, fmt.Errorf("%w: duplicate data chunk", ErrMalformedContainer)
			}
			if len(chunk)%f.BlockAlign != 0 {
				return f, nil, fmt.Errorf("%w: data size %d is not a multiple of block align %d",
					ErrMalformedContainer, len(chunk), f.BlockAlign)
			}
			samples = chunk
		}

		// Odd-sized chunks carry one pad byte.
		next := uint64(body) + size + size%2
		if next > uint64(len(data)) {
			next = uint64(len(data))
		}
		off = int(next)
	}

	if !haveFmt {
		return f, nil, fmt.Errorf("%w: missing fmt chunk", ErrMalformedContainer)
	}
	if samples == nil {
		return f, nil, fmt.Errorf("%w: missing data chunk", ErrMalformedContainer)
	}

	return f, samples, nil
}

func parseFmt(chunk []byte) (Format, error) {
	if len(chunk) < fmtChunkSize {
		return Format{}, fmt.Errorf("%w: fmt chunk of %d bytes", ErrMalformedContainer, len(chunk))
	}

	f := Format{
		AudioFormat:   binary.LittleEndian.Uint16(chunk[0:]),
		Channels:      int(binary.LittleEndian.Uint16(chunk[2:])),
		SampleRate:    int(binary.LittleEndian.Uint32(chunk[4:])),
		ByteRate:      int(binary.LittleEndian.Uint32(chunk[8:])),
		BlockAlign:    int(binary.LittleEndian.Uint16(chunk[12:])),
		BitsPerSample: int(binary.LittleEndian.Uint16(chunk[14:])),
	}

	if f.AudioFormat != formatPCM {
		return f, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, f.AudioFormat)
	}
	if f.BitsPerSample != BitsPerSample {
		return f, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, f.BitsPerSample)
	}
	if f.Channels == 0 || f.SampleRate == 0 {
		return f, fmt.Errorf("%w: %d channels at %d Hz", ErrMalformedContainer, f.Channels, f.SampleRate)
	}
	if f.BlockAlign != f.Channels*bytesPerSample || f.ByteRate != f.SampleRate*f.BlockAlign {
		return f, fmt.Errorf("%w: inconsistent block align %d or byte rate %d",
			ErrMalformedContainer, f.BlockAlign, f.ByteRate)
	}

	return f, nil
}
