package score

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Match is one (name, score) candidate found at byte offset Pos.
type Match struct {
	Name  string
	Score int
	Pos   int
}

// Strategy finds candidates under one phrasing convention.
type Strategy func(text string) []Match

const word = `([\p{L}\p{N}_]+)`

// Strategies run in this order over the whole text; none short-circuits.
var Strategies = []Strategy{
	pattern(`(?i)Participant:\s*` + word + `\s*-\s*Score:\s*([0-9]{1,4})`),
	pattern(`(?i)` + word + `\s*[:\-]\s*([0-9]{1,4})`),
	pattern(`(?i)` + word + `.*?([0-9]{1,4})\s*балл`),
	pattern(`(?i)` + word + `.*?([0-9]{1,4})\s*очков`),
	pattern(`(?i)` + word + `.*?([0-9]{1,4})\s*points`),
	pattern(`(?i)` + word + `\s*-\s*Score:\s*([0-9]{1,4})`),
}

// stopWords are header words that are never participant names.
var stopWords = map[string]bool{
	"score":       true,
	"participant": true,
	"оценка":      true,
	"балл":        true,
}

func pattern(expr string) Strategy {
	re := regexp.MustCompile(expr)
	return func(text string) []Match {
		var out []Match
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			n, err := strconv.Atoi(text[loc[4]:loc[5]])
			if err != nil {
				continue
			}
			out = append(out, Match{Name: text[loc[2]:loc[3]], Score: n, Pos: loc[2]})
		}
		return out
	}
}

// Extract builds a score table from text. Emphasis asterisks are dropped
// first so "**alice**: 850" reads like "alice: 850".
func Extract(text string) *Table {
	text = strings.ReplaceAll(text, "*", "")

	var matches []Match
	for _, s := range Strategies {
		matches = append(matches, s(text)...)
	}
	t := fold(matches)
	if t.Len() == 0 {
		t = fold(fallback(text))
	}
	return t
}

// fold merges matches in text order, keeping the maximum per name.
func fold(matches []Match) *Table {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Pos < matches[j].Pos })
	t := NewTable()
	for _, m := range matches {
		if isName(m.Name) {
			t.Add(m.Name, m.Score)
		}
	}
	return t
}

var (
	digitsRe = regexp.MustCompile(`[0-9]+`)
	wordRe   = regexp.MustCompile(word)
)

// fallback pairs the first 3-4 digit number on each line with the first
// word before it.
func fallback(text string) []Match {
	var (
		out    []Match
		offset int
	)
	for _, line := range strings.Split(text, "\n") {
		if m, ok := fallbackLine(line); ok {
			m.Pos += offset
			out = append(out, m)
		}
		offset += len(line) + 1
	}
	return out
}

func fallbackLine(line string) (Match, bool) {
	for _, loc := range digitsRe.FindAllStringIndex(line, -1) {
		if n := loc[1] - loc[0]; n < 3 || n > 4 {
			continue
		}
		score, _ := strconv.Atoi(line[loc[0]:loc[1]])
		for _, w := range wordRe.FindAllStringIndex(line[:loc[0]], -1) {
			name := line[w[0]:w[1]]
			if !hasLetter(name) {
				continue
			}
			if stopWords[strings.ToLower(name)] {
				return Match{}, false
			}
			return Match{Name: name, Score: score, Pos: w[0]}, true
		}
		return Match{}, false
	}
	return Match{}, false
}

func isName(s string) bool {
	return hasLetter(s) && !stopWords[strings.ToLower(s)]
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func itoa(n int) string { return strconv.Itoa(n) }
