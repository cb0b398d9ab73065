// Package sanitize cleans text crossing the bot boundary: user input before
// it is embedded in a prompt, and backend answers before they are shown in
// a chat that renders no markdown.
package sanitize

import (
	"regexp"
	"strings"
)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(previous|all\s+previous|all)\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+(everything|all|previous)`),
	regexp.MustCompile(`(?i)override\s+(system|instructions|prompt)`),
	regexp.MustCompile(`(?i)new\s+(instructions|prompt|system)`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)system\s*:`),
	regexp.MustCompile(`(?i)assistant\s*:`),
}

// UserText deletes instruction-override phrases from s. Matches are removed,
// not masked; surrounding text is left as is. Passes repeat until a deletion
// no longer joins the pieces of another phrase.
func UserText(s string) string {
	for {
		next := s
		for _, re := range injectionPatterns {
			next = re.ReplaceAllString(next, "")
		}
		if next == s {
			return s
		}
		s = next
	}
}

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Order matters: code before emphasis, triple markers before double before single.
var markupRules = []rule{
	{regexp.MustCompile("```[\\s\\S]*?```"), ""},
	{regexp.MustCompile("`([^`]+)`"), "${1}"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "${1}"},
	{regexp.MustCompile(`(?m)^#{1,6}\s+`), ""},
	{regexp.MustCompile(`\*\*\*([^*]+)\*\*\*`), "${1}"},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "${1}"},
	{regexp.MustCompile(`\*([^*\n]+)\*`), "${1}"},
	{regexp.MustCompile(`___([^_]+)___`), "${1}"},
	{regexp.MustCompile(`__([^_]+)__`), "${1}"},
	{regexp.MustCompile(`_([^_\n]+)_`), "${1}"},
	{regexp.MustCompile(`~~([^~]+)~~`), "${1}"},
	{regexp.MustCompile(`(?m)^---+$`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
	{regexp.MustCompile(` {2,}`), " "},
}

// StripMarkup removes lightweight markdown from s. Passes repeat until
// nothing changes, so nested markers resolve and the result is stable:
// StripMarkup(StripMarkup(s)) == StripMarkup(s).
func StripMarkup(s string) string {
	for {
		next := stripOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

// Every rule only shrinks its input, so the fixed point is always reached.
func stripOnce(s string) string {
	for _, r := range markupRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}

// SectionSeparator separates labelled per-backend sections.
const SectionSeparator = "\n\n---\n\n"

var labelRe = regexp.MustCompile(`\*\*([^*]+):\*\*`)

// StripMarkupKeepLabels strips markup inside each "**Name:**" section of a
// per-backend listing while keeping the bold labels.
func StripMarkupKeepLabels(s string) string {
	parts := strings.Split(s, SectionSeparator)
	for i, part := range parts {
		loc := labelRe.FindStringSubmatchIndex(part)
		if loc == nil || loc[0] != 0 {
			parts[i] = StripMarkup(part)
			continue
		}
		label := part[loc[2]:loc[3]]
		content := StripMarkup(strings.TrimSpace(labelRe.ReplaceAllString(part, "")))
		parts[i] = "**" + label + ":**\n" + content
	}
	return strings.Join(parts, SectionSeparator)
}
