package score

import (
	"sort"
	"strings"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 1000
)

// Table maps participant names to scores and remembers the order in which
// names were first seen.
type Table struct {
	scores map[string]int
	order  []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{scores: make(map[string]int)}
}

// Add records score for name. Out-of-range scores are ignored and a lower
// score never replaces a higher one. It reports whether the table changed.
func (t *Table) Add(name string, score int) bool {
	if name == "" || score < MinScore || score > MaxScore {
		return false
	}
	prev, seen := t.scores[name]
	if !seen {
		t.order = append(t.order, name)
	} else if prev >= score {
		return false
	}
	t.scores[name] = score
	return true
}

// Get returns the score recorded for name.
func (t *Table) Get(name string) (int, bool) {
	s, ok := t.scores[name]
	return s, ok
}

// Len returns the number of participants.
func (t *Table) Len() int { return len(t.order) }

// Names returns participant names in encounter order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Entry is one ranked participant.
type Entry struct {
	Name  string
	Score int
}

// Rank orders participants by descending score. Ties keep encounter order.
func Rank(t *Table) []Entry {
	entries := make([]Entry, 0, t.Len())
	for _, name := range t.order {
		entries = append(entries, Entry{Name: name, Score: t.scores[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// EmptyScoreboard is shown when no score could be extracted.
const EmptyScoreboard = "**Scoreboard:**\n\nUnable to extract scores from summary."

var medals = []string{"🥇", "🥈", "🥉"}

// FormatScoreboard renders the ranked table with medals for the top three
// and a winner line for the first entry.
func FormatScoreboard(t *Table) string {
	ranked := Rank(t)
	if len(ranked) == 0 {
		return EmptyScoreboard
	}

	lines := []string{"**🏆 Scoreboard:**\n"}
	for i, e := range ranked {
		medal := "  "
		if i < len(medals) {
			medal = medals[i]
		}
		lines = append(lines, medal+" **"+e.Name+"**: "+itoa(e.Score)+" points")
	}
	winner := ranked[0]
	lines = append(lines, "\n**🎉 Winner: "+winner.Name+"** with "+itoa(winner.Score)+" points!")
	return strings.Join(lines, "\n")
}
