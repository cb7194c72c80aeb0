// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgsearch

import (
	"sort"
	"strings"
)

// Path score weights.
const (
	wordInPathScore  = 10
	dialogPathScore  = 8
	trackerPathScore = 5
	testPathPenalty  = -3
)

// PathScore rates how likely path is to contain eventName.
func PathScore(path, eventName string) int {
	p := strings.ToLower(path)
	score := 0
	for _, w := range nameWords(eventName) {
		if strings.Contains(p, w) {
			score += wordInPathScore
		}
	}
	if strings.Contains(p, "dialog") || strings.Contains(p, "modal") {
		score += dialogPathScore
	}
	if strings.Contains(p, "analytic") || strings.Contains(p, "track") || strings.Contains(p, "event") {
		score += trackerPathScore
	}
	if strings.Contains(p, "test") || strings.Contains(p, "spec") {
		score += testPathPenalty
	}
	return score
}

// Prioritize orders paths by PathScore, highest first, keeping the input
// order among equal scores, and returns at most limit paths.
func Prioritize(paths []string, eventName string, limit int) []string {
	type scored struct {
		path  string
		score int
	}
	s := make([]scored, len(paths))
	for i, p := range paths {
		s[i] = scored{p, PathScore(p, eventName)}
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].score > s[j].score })

	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].path
	}
	return out
}
