// Package dynamics provides reusable non-I/O dynamics processors.
//
// Included processors:
//   - Compressor: feed-forward soft-knee compressor with a one-pole
//     attack/release envelope follower and dB-domain gain computer.
package dynamics
