package parser

import "strings"

// Command turns text typed without a prefix into a parser message. A log
// command keeps an explicit /log or /note prefix; a note command only
// recognizes /note. typed reports whether the caller already wrote a prefix.
func Command(text string, note bool) (message string, typed bool) {
	prefixes := []string{logPrefix, notePrefix}
	fallback := logPrefix
	if note {
		prefixes = []string{notePrefix}
		fallback = notePrefix
	}
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return p + strings.TrimSpace(text[len(p):]), true
		}
	}
	return fallback + text, false
}
