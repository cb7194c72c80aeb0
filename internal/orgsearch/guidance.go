// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgsearch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

const recentRepoCount = 3

// scriptLanguages are the repository languages worth searching.
var scriptLanguages = map[string]bool{
	"javascript": true, "typescript": true, "vue": true, "react": true,
}

var trackingNameHints = []string{"analytics", "tracking", "event"}

func hasTrackingName(name string) bool {
	n := strings.ToLower(name)
	for _, h := range trackingNameHints {
		if strings.Contains(n, h) {
			return true
		}
	}
	return false
}

// relevant keeps script-language repositories, repositories with no
// declared language, and repositories named after tracking.
func relevant(r types.Repository) bool {
	return r.Language == "" || scriptLanguages[strings.ToLower(r.Language)] || hasTrackingName(r.Name)
}

// fullScanCandidate reports whether a whole-repository scan is worthwhile.
func fullScanCandidate(r types.Repository) bool {
	lang := strings.ToLower(r.Language)
	return hasTrackingName(r.Name) || lang == "typescript" || lang == "javascript"
}

// guidance lists the organization's repositories and suggests how to
// continue after an exact search found nothing.
func (o *Orchestrator) guidance(ctx context.Context, req Request) (types.Guidance, error) {
	repos, err := o.host.OrgRepos(ctx, req.Org)
	if err != nil {
		return types.Guidance{}, fmt.Errorf("listing repositories of %s: %w", req.Org, err)
	}
	tokens := Tokens(req.EventName)

	var candidates []types.Repository
	for _, r := range repos {
		if relevant(r) {
			candidates = append(candidates, r)
		}
	}

	g := types.Guidance{
		Message: fmt.Sprintf("No exact match for %q in %s. Search for the tokens below or scan one of the suggested repositories.",
			req.EventName, req.Org),
		Tokens:           tokens,
		SuggestedQueries: suggestedQueries(req.Org, req.EventName, tokens),
		TokenSearchRepos: rankForTokens(candidates, tokens, req.MaxRepos),
		FullScanRepos:    []types.Repository{},
		RecentRepos:      recent(repos, recentRepoCount),
	}
	for _, r := range candidates {
		if fullScanCandidate(r) {
			g.FullScanRepos = append(g.FullScanRepos, r)
			if len(g.FullScanRepos) == req.MaxRepos {
				break
			}
		}
	}
	o.logger.InfoContext(ctx, "no exact match, returning guidance",
		"org", req.Org, "event", req.EventName, "repositories", len(repos), "candidates", len(candidates))
	return g, nil
}

// rankForTokens orders repositories by how many tokens their name contains,
// then by tracking-style names, then by most recent update.
func rankForTokens(repos []types.Repository, tokens []string, limit int) []types.Repository {
	score := func(r types.Repository) int {
		n := strings.ToLower(r.Name)
		s := 0
		for _, t := range tokens {
			if strings.Contains(n, t) {
				s += 10
			}
		}
		if hasTrackingName(r.Name) {
			s += 5
		}
		return s
	}
	out := make([]types.Repository, len(repos))
	copy(out, repos)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(out[i]), score(out[j])
		if si != sj {
			return si > sj
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// recent returns the n most recently updated non-archived repositories.
func recent(repos []types.Repository, n int) []types.Repository {
	var live []types.Repository
	for _, r := range repos {
		if !r.Archived {
			live = append(live, r)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].UpdatedAt.After(live[j].UpdatedAt) })
	if len(live) > n {
		live = live[:n]
	}
	if live == nil {
		live = []types.Repository{}
	}
	return live
}

// suggestedQueries offers code search queries for the common spellings of
// the event name and for each token.
func suggestedQueries(org, eventName string, tokens []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(term string) {
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		out = append(out, fmt.Sprintf("%q org:%s", term, org))
	}
	words := splitWords(eventName)
	var camel []string
	for _, w := range words {
		camel = append(camel, splitCamel(w)...)
	}
	lower := make([]string, len(camel))
	for i, w := range camel {
		lower[i] = strings.ToLower(w)
	}
	add(strings.Join(lower, "_"))
	add(strings.ToUpper(strings.Join(lower, "_")))
	add(lowerCamel(lower))
	for _, t := range tokens {
		add(t)
	}
	return out
}

func lowerCamel(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 || w == "" {
			b.WriteString(w)
			continue
		}
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])) + string(r[1:]))
	}
	return b.String()
}
