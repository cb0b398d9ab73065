// Package bootstrap drives a quorumbot command from config to shutdown.
//
// Startup order: components, OnConfigure callbacks, late
// components, ready check, OnReady hooks. Shutdown runs OnStop hooks and
// then stops components in reverse registration order. Run serves until a
// signal; RunTask serves for the duration of one task, which the console
// commands use.
package bootstrap
