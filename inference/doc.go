// Package inference defines the boundary to remote multimodal analysis
// backends.
//
// An Adapter takes a materialized media payload plus contextual Hints and
// returns a structured transcript.AnalysisResult. Backends register a factory
// in a Registry; New builds the configured backend and wraps it with the
// provider logging, tracing and resilience middleware.
//
//	reg := inference.NewRegistry()
//	gemini.Register(reg)
//	adapter, err := inference.New(cfg, reg, log)
package inference
