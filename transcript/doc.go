// Package transcript holds the analysis result model and the operations that
// stitch per-segment results into one continuous transcript.
//
// Merge shifts every entry of segment k by the summed durations of segments
// 0..k-1, taking the duration supplied with each part rather than deriving it
// from the transcript, so a failed segment with an empty transcript still
// advances the timeline. Dedupe then removes verbatim repeats that appear on
// both sides of a segment boundary.
package transcript
