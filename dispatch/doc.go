// Package dispatch sends planned segments to the inference adapter strictly
// one after another and turns every outcome into a transcript.Part.
//
// A failing segment never aborts the run: it is logged and replaced by a
// placeholder result that keeps the segment's duration, so later timestamp
// offsets stay correct. A fixed cool-down separates consecutive calls.
// Cancellation is checked between segments and during the cool-down.
package dispatch
