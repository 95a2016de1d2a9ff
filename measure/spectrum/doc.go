// Package spectrum measures the frequency content of rendered audio.
//
// [Analyzer] computes Welch-averaged, amplitude-corrected magnitude spectra
// with half-overlapping windowed frames. [Goertzel] evaluates a single
// frequency, which is the cheap way to compare one tone before and after an
// effect chain.
package spectrum
