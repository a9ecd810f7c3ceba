// Package provider defines the swappable-backend contract used for inference
// adapters: a named RequestResponse provider, a factory registry keyed by
// backend name, and middlewares for logging, tracing and resilience.
//
//	adapter := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out]("videoscribe"),
//	    provider.WithResilience[In, Out](cfg),
//	)(raw)
package provider
