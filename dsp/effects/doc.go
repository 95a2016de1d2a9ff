// Package effects provides reusable non-I/O DSP effect kernels.
//
// Subpackages:
//   - github.com/cwbudde/algo-enhance/dsp/effects/dynamics
//   - github.com/cwbudde/algo-enhance/dsp/effects/spatial
//
// Effects remaining in this package:
//   - Waveshaper: tabulated soft-saturation curve with optional 2x/4x
//     oversampling.
//   - Gain: constant multiply.
//   - Ramp: exponential (linear in dB) gain ramp shared across channels.
//
// Effects are mono and carry their own state; multi-channel callers keep
// one instance per channel, except Ramp which is frame-aligned.
package effects
