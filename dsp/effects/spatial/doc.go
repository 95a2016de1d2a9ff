// Package spatial provides reusable non-I/O spatial audio effects.
//
// Included processors:
//   - Panner: equal-power stereo panner following the Web Audio
//     StereoPannerNode law.
package spatial
