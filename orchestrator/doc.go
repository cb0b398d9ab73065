// Package orchestrator fans one question out to several answer backends at
// once, keeps a live status board while they run, and optionally asks a
// synthesizer backend to merge the answers into one.
//
// Dispatch owns a single coordinator goroutine that is the only writer of
// the status board. Workers report completion over a channel; the
// coordinator applies each update, renders the board in submission order
// and hands the text to a Publisher. Every goroutine started by Dispatch
// has exited by the time it returns.
package orchestrator
