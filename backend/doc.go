// Package backend issues single question calls to named answer backends and
// reports every outcome as a Result value. It also holds the catalog of
// known backends: the default quorum, the synthesizer and the aliases
// accepted by the q2 command.
package backend
