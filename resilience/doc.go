// Package resilience holds the patterns that protect calls to the inference
// backend:
//   - Retry: retries retryable failures with exponential backoff
//   - CircuitBreaker: fails fast once the backend keeps failing
//   - RateLimiter: token bucket for request rate
//   - Pacer: a fixed pause between consecutive calls
//
// provider.WithResilience composes the first three around an adapter; the
// dispatch loop uses a Pacer between segments.
package resilience
