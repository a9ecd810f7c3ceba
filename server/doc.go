// Package server exposes the analysis pipeline over HTTP using Gin behind an
// h2c handler, so HTTP/1.1 and cleartext HTTP/2 clients share one port.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request id generation and propagation
//   - RequestLogger: request logging with duration tracking
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: upload size limit
//
// # Endpoints
//
//   - GET /health: component health aggregation
//   - GET /info: build information
//   - POST /v1/analyses: multipart upload analysed synchronously, or streamed
//     as server-sent events with ?stream=true
//   - GET /v1/analyses/:id: an archived report, when storage is configured
package server
