// Package component defines the lifecycle contract shared by the bot's
// infrastructure pieces (database, redis, HTTP server, chat poller) and a
// registry that starts them in order and stops them in reverse.
package component
