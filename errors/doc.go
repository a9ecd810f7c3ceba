// Package errors defines the structured error type shared by every videoscribe
// package. Each AppError carries a machine-readable code, an HTTP status for the
// server surface and a retryable flag consumed by the resilience layer.
package errors
