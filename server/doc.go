// Package server provides the bot's HTTP surface on Gin: health probes and
// the Telegram webhook endpoint.
//
// The server follows the component pattern with lifecycle management,
// health endpoints, and configurable middleware.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - RequestLogger: Request logging with duration tracking
//   - BodySizeLimit: Request body size limits
//   - RateLimit: Token bucket rate limiting for public routes
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: Health check aggregation over registered components
//   - /alive: Liveness probe
package server
