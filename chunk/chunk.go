// Package chunk splits long outbound text into pieces that fit the chat
// transport's message size limit.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Separator is the paragraph break text is split on.
const Separator = "\n\n"

// Split returns text unchanged as a single chunk when it fits in maxLen
// runes. Otherwise it packs consecutive paragraphs greedily while the chunk,
// its separators included, stays within maxLen. A paragraph longer than
// maxLen is emitted whole as its own chunk.
//
// strings.Join(Split(text, n), Separator) == text for every input.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var (
		chunks []string
		cur    []string
		curLen int
	)
	for _, p := range strings.Split(text, Separator) {
		pLen := utf8.RuneCountInString(p)
		if len(cur) > 0 && curLen+pLen+len(Separator) > maxLen {
			chunks = append(chunks, strings.Join(cur, Separator))
			cur, curLen = nil, 0
		}
		if len(cur) > 0 {
			curLen += len(Separator)
		}
		cur = append(cur, p)
		curLen += pLen
	}
	return append(chunks, strings.Join(cur, Separator))
}
