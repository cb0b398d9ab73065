// Package battle implements battle mode: a per-chat session that is either
// idle or active. While active, every message since the start feeds the
// prompts; stopping the battle asks the synthesizer for a scored summary
// and renders a scoreboard from it.
package battle
