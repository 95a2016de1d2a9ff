// Package design provides RBJ Audio-EQ-Cookbook biquad coefficient designers.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad for runtime processing. Every designer validates its
// arguments and fails with core.ErrInvalidParameter instead of clamping:
// frequencies must lie strictly between 0 and Nyquist, Q must be positive
// and gains must be finite. Shelves use a fixed slope S = 1.
package design
