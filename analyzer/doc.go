// Package analyzer runs a media item end to end: it decides whether to split
// the item, plans segments, dispatches them one at a time to the inference
// backend and merges the per-segment results into one transcript.
//
//	a, err := analyzer.New(cfg, adapter)
//	report, err := a.Analyze(ctx, item, inference.Hints{Title: "Keynote"}, dispatch.Observers{})
//
// An Archive keeps reports in a storage backend keyed by run id.
package analyzer
