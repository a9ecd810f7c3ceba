package logger

import (
	"time"
)

// Field keys shared across the analysis pipeline.
const (
	FieldService      = "service"
	FieldComponent    = "component"
	FieldRunID        = "run_id"
	FieldRequestID    = "request_id"
	FieldSegment      = "segment"
	FieldSegmentTotal = "segment_total"
	FieldSegmentStart = "segment_start_s"
	FieldSegmentEnd   = "segment_end_s"
	FieldMediaPath    = "media_path"
	FieldOperation    = "operation"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
)

// Fields builds a map[string]any from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "merge", "parts", 3))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// SegmentFields creates fields identifying one segment of a run.
func SegmentFields(index, total int, start, end float64) map[string]any {
	return map[string]any{
		FieldSegment:      index,
		FieldSegmentTotal: total,
		FieldSegmentStart: start,
		FieldSegmentEnd:   end,
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]any, err error) map[string]any {
	if fields == nil {
		fields = make(map[string]any)
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	if fields == nil {
		fields = make(map[string]any)
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
