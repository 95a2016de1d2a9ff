// Package playback is the transport for auditioning buffers: a
// Stopped/Playing/Paused state machine whose position is derived from a
// device clock, and a pull source that the output device drains.
//
// The control goroutine requests transitions (Play, Pause, Seek, Restart,
// Stop) and volume changes; the device goroutine pulls samples through Fill
// or the io.Reader handed to Device.Start, which also performs the automatic
// end-of-buffer stop. Both sides share one mutex.
//
// Transport requests are never rejected: out-of-range seeks and volumes are
// clamped to the nearest valid value.
package playback
