// Package transport defines how the bot talks to a chat: inbound events,
// outbound sends and in-place edits. The Telegram adapter lives in
// transport/telegram; Console drives the bot from a terminal.
package transport
