// Package resilience holds the two guards quorumbot puts in front of
// external HTTP services: a circuit breaker that fails fast once a backend
// keeps erroring, and a token bucket that paces outbound chat API calls.
// Neither retries; a rejected call is reported to the caller as an error.
package resilience
