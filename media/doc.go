// Package media opens video files, decides whether they need splitting and
// plans the time-bounded segments that are sent to the inference backend one
// at a time.
//
// Planning is purely logical: segments carry start and end offsets in seconds.
// A Materializer turns a segment into a transferable Payload. The default
// FullMaterializer sends the whole file for every segment and relies on the
// segment hints to focus the backend; RangeMaterializer cuts the actual time
// range with ffmpeg.
package media
