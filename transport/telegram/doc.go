// Package telegram adapts the Telegram Bot API to the transport interfaces.
// Inbound messages arrive by long polling (getUpdates) or through a webhook
// served by the HTTP server; outbound calls are paced by a token bucket and
// never retried.
package telegram
