// Package pipeline provides lazy, pull-based operators over a sequence of values.
//
// No work happens until values are pulled via Collect, and each stage
// pulls exactly one value from the previous stage per step. A Map stage therefore
// never starts work for element n+1 before element n has been consumed, which is
// what the dispatch loop relies on for strictly sequential backend calls.
//
//	src := pipeline.FromSlice(segments)
//	parts := pipeline.Map(src, dispatchOne)
//	parts = pipeline.Tap(parts, notify)
//	out, err := pipeline.Collect(ctx, parts)
//
// Every source checks the context before yielding, so cancellation takes effect
// between elements and Collect returns whatever was produced before it.
package pipeline
