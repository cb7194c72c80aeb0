// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgsearch

import (
	"strings"
	"unicode"
)

// minTokenLen drops fragments too short to search for.
const minTokenLen = 3

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "onto": true, "that": true, "this": true, "was": true,
	"were": true, "are": true, "has": true, "have": true, "had": true,
	"not": true, "but": true, "its": true, "our": true, "your": true,
}

// splitWords splits on whitespace, hyphens, underscores and dots.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.'
	})
}

// splitCamel splits at lower-to-upper and acronym-to-word boundaries:
// "userSignedUp" → user, Signed, Up; "HTTPRequest" → HTTP, Request.
func splitCamel(s string) []string {
	runes := []rune(s)
	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := unicode.IsLower(prev) && unicode.IsUpper(cur) ||
			unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) ||
			unicode.IsLetter(prev) != unicode.IsLetter(cur)
		if boundary {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// Tokens derives lowercase search tokens from an event name. Each
// separator-delimited word is kept whole and also split at camelCase
// boundaries. Tokens shorter than three characters and stopwords are
// dropped; duplicates keep their first position.
func Tokens(eventName string) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(t string) {
		t = strings.ToLower(t)
		if len([]rune(t)) < minTokenLen || stopwords[t] || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, w := range splitWords(eventName) {
		add(w)
		for _, part := range splitCamel(w) {
			add(part)
		}
	}
	return out
}

// nameWords returns the lowercase words of an event name used for path
// prioritization.
func nameWords(eventName string) []string {
	var out []string
	for _, w := range splitWords(eventName) {
		if len([]rune(w)) >= minTokenLen {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}
