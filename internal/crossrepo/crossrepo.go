// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossrepo reconciles the usages of one event found across
// several repositories: which property shapes are in use, which property
// keys are spelled inconsistently, and which repositories use the event
// most.
package crossrepo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// Recommendation thresholds.
const (
	schemaSignatureThreshold = 3
	documentationThreshold   = 20
)

// Analyze groups matches by property signature, flags inconsistent key
// spellings and ranks repositories. Each match's repository is the first
// segment of its location path.
func Analyze(matches []types.Candidate, eventName string) types.CrossRepoAnalysis {
	if len(matches) == 0 {
		return types.CrossRepoAnalysis{
			EventName: eventName,
			Message:   fmt.Sprintf("no occurrences of %q to analyze", eventName),
		}
	}

	out := types.CrossRepoAnalysis{
		EventName:        eventName,
		TotalOccurrences: len(matches),
		Signatures:       signatures(matches),
		Inconsistencies:  inconsistencies(matches),
		RepositoryUsage:  usage(matches),
	}
	out.Recommendations = recommendations(out)
	return out
}

// Repository returns the first path segment of file.
func Repository(file string) string {
	repo, _, _ := strings.Cut(strings.TrimPrefix(file, "/"), "/")
	return repo
}

func signatures(matches []types.Candidate) []types.SignatureGroup {
	groups := map[string]*types.SignatureGroup{}
	repos := map[string]map[string]bool{}
	var order []string
	for _, m := range matches {
		keys := m.PropertyKeys()
		id := strings.Join(keys, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &types.SignatureGroup{Keys: keys, Example: m.UserProperties()}
			groups[id] = g
			repos[id] = map[string]bool{}
			order = append(order, id)
		}
		g.Count++
		repos[id][Repository(m.Location.File)] = true
	}

	out := make([]types.SignatureGroup, 0, len(order))
	for _, id := range order {
		g := groups[id]
		g.Repositories = sortedKeys(repos[id])
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Join(out[i].Keys, ",") < strings.Join(out[j].Keys, ",")
	})
	return out
}

// normalizeKey folds case and drops separators so userId, user_id and
// User-ID compare equal.
func normalizeKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "").Replace(k)
}

func inconsistencies(matches []types.Candidate) []types.Inconsistency {
	variants := map[string]map[string]bool{}
	for _, m := range matches {
		for _, k := range m.PropertyKeys() {
			n := normalizeKey(k)
			if variants[n] == nil {
				variants[n] = map[string]bool{}
			}
			variants[n][k] = true
		}
	}

	var out []types.Inconsistency
	for n, raw := range variants {
		if len(raw) > 1 {
			out = append(out, types.Inconsistency{Normalized: n, Variants: sortedKeys(raw)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Normalized < out[j].Normalized })
	return out
}

func usage(matches []types.Candidate) []types.RepoUsage {
	counts := map[string]int{}
	for _, m := range matches {
		counts[Repository(m.Location.File)]++
	}
	out := make([]types.RepoUsage, 0, len(counts))
	for repo, n := range counts {
		out = append(out, types.RepoUsage{Repository: repo, Occurrences: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Repository < out[j].Repository
	})
	return out
}

func recommendations(a types.CrossRepoAnalysis) []string {
	var out []string
	if len(a.Inconsistencies) > 0 {
		out = append(out, fmt.Sprintf(
			"Standardize property naming: %d property keys are spelled differently across usages", len(a.Inconsistencies)))
	}
	if len(a.Signatures) > schemaSignatureThreshold {
		out = append(out, fmt.Sprintf(
			"Define a shared schema for %q: %d different property sets are in use", a.EventName, len(a.Signatures)))
	}
	if a.TotalOccurrences > documentationThreshold {
		out = append(out, fmt.Sprintf(
			"Document %q in the tracking plan: it is sent from %d places", a.EventName, a.TotalOccurrences))
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
