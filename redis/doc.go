// Package redis wraps go-redis with structured logging and component
// lifecycle, and provides TypedStore, a JSON-encoded
// provider.StateStore used to share battle session state between bot
// instances.
//
//	store := redis.NewTypedStore[battle.Session](comp.Client(), "quorumbot:battle")
package redis
