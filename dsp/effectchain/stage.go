package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/buffer"
	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Stage is one live processing node. Process consumes a whole buffer in
// place and keeps any per-channel state internally. A stage handed a buffer
// with a different channel count than it was built for fails with
// core.ErrInternalInvariant.
type Stage interface {
	Process(buf *buffer.Buffer) error
}

func checkChannels(kind string, want int, buf *buffer.Buffer) error {
	if buf.NumChannels() != want {
		return fmt.Errorf("effectchain: %s stage built for %d channels got %d: %w",
			kind, want, buf.NumChannels(), core.ErrInternalInvariant)
	}

	return nil
}
