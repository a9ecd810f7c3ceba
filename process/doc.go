// Package process runs external media binaries (ffprobe, ffmpeg) as
// subprocesses with graceful cancellation.
//
// Run starts the binary in its own process group; cancelling the context sends
// SIGTERM to the group and escalates to SIGKILL after the grace period.
// Tool wraps a binary as a typed provider.RequestResponse so callers deal in
// domain values instead of argv and stdout.
package process
