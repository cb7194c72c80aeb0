// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/analytics-scout/internal/analyze"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// PullRequestFile lists the events added by one changed file.
type PullRequestFile struct {
	Filename string            `json:"filename" yaml:"filename"`
	Status   string            `json:"status" yaml:"status"`
	Events   []types.Candidate `json:"events" yaml:"events"`
}

// PullRequestResult holds the events introduced by a pull request.
type PullRequestResult struct {
	Repository string              `json:"repository" yaml:"repository"`
	Number     int                 `json:"pull_number" yaml:"pull_number"`
	Files      []PullRequestFile   `json:"files" yaml:"files"`
	Events     []types.Candidate   `json:"events" yaml:"events"`
	Quality    types.QualityReport `json:"quality" yaml:"quality"`
	Skipped    []FileError         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// AnalyzePullRequest extracts events from the lines a pull request adds.
// Removed files and files outside the default filters are ignored; a file
// without a textual patch is recorded as skipped.
func (s *Scanner) AnalyzePullRequest(ctx context.Context, owner, repo string, number int) (PullRequestResult, error) {
	if owner == "" || repo == "" {
		return PullRequestResult{}, errors.New("owner and repo are required")
	}
	if number <= 0 {
		return PullRequestResult{}, fmt.Errorf("invalid pull request number %d", number)
	}
	changed, err := s.host.PullRequestFiles(ctx, owner, repo, number)
	if err != nil {
		return PullRequestResult{}, fmt.Errorf("analyzing pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	res := PullRequestResult{
		Repository: owner + "/" + repo,
		Number:     number,
		Files:      []PullRequestFile{},
		Events:     []types.Candidate{},
	}
	m := s.Matcher(nil, nil)
	for _, f := range changed {
		if f.Status == "removed" || !m.Match(f.Filename) {
			continue
		}
		if f.Patch == "" {
			res.Skipped = append(res.Skipped, FileError{Path: f.Filename, Error: "no textual patch"})
			continue
		}
		cands := s.addedEvents(f)
		res.Files = append(res.Files, PullRequestFile{Filename: f.Filename, Status: f.Status, Events: cands})
		res.Events = append(res.Events, cands...)
	}
	res.Quality = analyze.Analyze(res.Events)
	s.logger.InfoContext(ctx, "pull request analyzed",
		"repository", res.Repository, "pull_number", number,
		"files", len(res.Files), "events", len(res.Events))
	return res, nil
}

// addedEvents extracts from the new-file view of a patch and keeps the
// candidates on added lines.
func (s *Scanner) addedEvents(f types.ChangedFile) []types.Candidate {
	content, added := NewSide(f.Patch)
	var out []types.Candidate
	for _, c := range s.extract(content, f.Filename) {
		if added[c.Location.Line] {
			out = append(out, c)
		}
	}
	if out == nil {
		out = []types.Candidate{}
	}
	return out
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// NewSide reconstructs the new-file side of a unified diff patch. Added and
// context lines are placed at their new-file line numbers; lines the patch
// does not cover are blank. added holds the line numbers the patch adds.
func NewSide(patch string) (content string, added map[int]bool) {
	added = map[int]bool{}
	var lines []string
	place := func(n int, text string) {
		for len(lines) < n {
			lines = append(lines, "")
		}
		lines[n-1] = text
	}

	next := 0
	for _, l := range strings.Split(patch, "\n") {
		if m := hunkHeaderRe.FindStringSubmatch(l); m != nil {
			next, _ = strconv.Atoi(m[1])
			continue
		}
		if next == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(l, "+"):
			place(next, l[1:])
			added[next] = true
			next++
		case strings.HasPrefix(l, " "):
			place(next, l[1:])
			next++
		case l == "":
			// Some patches drop the leading space on empty context lines.
			place(next, "")
			next++
		}
	}
	return strings.Join(lines, "\n"), added
}
