// Package provider defines the request-response abstraction shared by the
// bot's outbound integrations (answer backends, transcription) together with
// composable middleware and typed state stores.
//
// Middleware wraps a RequestResponse; Chain composes several with the first
// one outermost:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics, "backend"),
//	    provider.WithTracing[In, Out]("backend"),
//	)(raw)
//
// StateStore[C] persists small typed values such as the per-chat battle
// flag. MemoryState is the in-process implementation; redis.TypedStore is the
// shared one.
package provider
