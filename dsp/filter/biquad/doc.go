// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. A [Filter] shares one set
// of coefficients across several channels while keeping an independent
// delay line per channel, so that channels never leak into each other.
//
// This package provides the processing runtime only. Coefficient design
// (shelves, peaking, pass filters) lives in dsp/filter/design.
package biquad
