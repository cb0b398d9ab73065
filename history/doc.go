// Package history is the bot's append-only chat log. Records are never
// updated or deleted; readers get either the last N records of a chat or
// every record since a point in time, oldest first.
//
// Two stores are provided: MemoryStore for tests and the console CLI, and
// GormStore for SQLite persistence through the database package.
package history
