package orchestrator

import "strings"

// Status is the progress of one backend on the board.
type Status int

const (
	Pending Status = iota
	Done
	Error
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Error:
		return "error"
	default:
		return "waiting.."
	}
}

func (s Status) emoji() string {
	switch s {
	case Done:
		return "✅"
	case Error:
		return "❌"
	default:
		return "⏳"
	}
}

// StatusBoard is the per-backend progress shown while a dispatch runs.
// Rows keep submission order, so a name listed twice gets two rows.
type StatusBoard struct {
	names    []string
	statuses []Status
}

// NewStatusBoard returns a board with every name Pending.
func NewStatusBoard(names []string) StatusBoard {
	return StatusBoard{
		names:    append([]string(nil), names...),
		statuses: make([]Status, len(names)),
	}
}

// Set records the status of row i. Out-of-range rows are ignored.
func (b *StatusBoard) Set(i int, s Status) {
	if i >= 0 && i < len(b.statuses) {
		b.statuses[i] = s
	}
}

// Status returns the status of row i.
func (b StatusBoard) Status(i int) Status {
	if i < 0 || i >= len(b.statuses) {
		return Pending
	}
	return b.statuses[i]
}

// Render draws one "<emoji> querying <Name> (<status>)" line per row.
func (b StatusBoard) Render() string {
	lines := make([]string, len(b.names))
	for i, name := range b.names {
		s := b.statuses[i]
		lines[i] = s.emoji() + " querying " + name + " (" + s.String() + ")"
	}
	return strings.Join(lines, "\n")
}
