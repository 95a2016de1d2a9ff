// Package loudness meters rendered audio per ITU-R BS.1770 / EBU R128:
// K-weighted momentary, short-term and gated integrated loudness, plus
// per-channel sample peaks. [Measure] reports on a whole buffer.
package loudness
