// Package buffer provides the multi-channel sample buffer shared by the
// renderer, the playback scheduler and the PCM codec.
//
// A Buffer is immutable by convention: processing stages receive their own
// copy and the renderer never mutates the caller's input. Channels are
// stored planar ([channel][frame]) so that per-channel DSP state can walk a
// contiguous slice.
package buffer
