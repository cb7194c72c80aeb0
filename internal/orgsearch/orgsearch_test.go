// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgsearch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// orgHost is an in-memory organization. trees maps repo → branch → files.
type orgHost struct {
	hits      []types.CodeSearchHit
	searchErr error
	repos     []types.Repository
	reposErr  error
	trees     map[string]map[string]map[string]string

	mu        sync.Mutex
	treeCalls map[string][]string
	fetched   map[string]int
}

func (h *orgHost) Tree(_ context.Context, _, repo, ref string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.treeCalls == nil {
		h.treeCalls = map[string][]string{}
	}
	h.treeCalls[repo] = append(h.treeCalls[repo], ref)
	files, ok := h.trees[repo][ref]
	if !ok {
		return nil, codehost.ErrNotFound
	}
	var out []string
	for p := range files {
		out = append(out, p)
	}
	return out, nil
}

func (h *orgHost) Content(_ context.Context, _, repo, path, ref string) ([]byte, error) {
	h.mu.Lock()
	if h.fetched == nil {
		h.fetched = map[string]int{}
	}
	h.fetched[repo]++
	h.mu.Unlock()
	c, ok := h.trees[repo][ref][path]
	if !ok {
		return nil, codehost.ErrNotFound
	}
	return []byte(c), nil
}

func (h *orgHost) SearchCode(context.Context, string) ([]types.CodeSearchHit, error) {
	return h.hits, h.searchErr
}

func (h *orgHost) OrgRepos(context.Context, string) ([]types.Repository, error) {
	return h.repos, h.reposErr
}

func (h *orgHost) PullRequestFiles(context.Context, string, string, int) ([]types.ChangedFile, error) {
	return nil, nil
}

type countingLimiter struct {
	mu    sync.Mutex
	waits int
}

func (l *countingLimiter) Wait(context.Context) error {
	l.mu.Lock()
	l.waits++
	l.mu.Unlock()
	return nil
}

func hit(repo, path string) types.CodeSearchHit {
	return types.CodeSearchHit{Repository: types.Repository{Name: repo, FullName: "acme/" + repo}, Path: path}
}

func newOrchestrator(h codehost.Host, l Limiter) *Orchestrator {
	return New(h, Config{Limiter: l})
}

func TestSearch_NoHitsReturnsGuidance(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	h := &orgHost{repos: []types.Repository{
		{Name: "web-app", Language: "TypeScript", UpdatedAt: now.Add(-time.Hour)},
		{Name: "billing", Language: "Go", UpdatedAt: now},
		{Name: "event-pipeline", Language: "Python", UpdatedAt: now.Add(-2 * time.Hour)},
		{Name: "legacy-site", Language: "JavaScript", Archived: true, UpdatedAt: now.Add(time.Hour)},
		{Name: "docs", UpdatedAt: now.Add(-3 * time.Hour)},
		{Name: "user-signup", Language: "JavaScript", UpdatedAt: now.Add(-4 * time.Hour)},
	}}

	res, err := newOrchestrator(h, &countingLimiter{}).Search(context.Background(), Request{Org: "acme", EventName: "User Signed Up"})

	require.NoError(t, err)
	assert.Equal(t, types.PhaseExactMatchFailed, res.Phase)
	assert.Empty(t, res.Repositories)
	assert.Nil(t, res.Analysis)
	require.NotNil(t, res.Guidance)

	g := res.Guidance
	assert.Equal(t, []string{"user", "signed"}, g.Tokens)
	assert.NotEmpty(t, g.Message)
	assert.Contains(t, g.SuggestedQueries, `"user_signed_up" org:acme`)
	assert.Contains(t, g.SuggestedQueries, `"USER_SIGNED_UP" org:acme`)
	assert.Contains(t, g.SuggestedQueries, `"userSignedUp" org:acme`)

	names := func(rs []types.Repository) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}
	assert.NotContains(t, names(g.TokenSearchRepos), "billing")
	assert.Equal(t, "user-signup", g.TokenSearchRepos[0].Name, "repository named after a token ranks first")
	assert.ElementsMatch(t, []string{"web-app", "event-pipeline", "legacy-site", "user-signup"}, names(g.FullScanRepos))
	assert.Equal(t, []string{"billing", "web-app", "event-pipeline"}, names(g.RecentRepos))
}

func TestSearch_CodeSearchFailureFallsBack(t *testing.T) {
	h := &orgHost{searchErr: errors.New("search unavailable")}

	res, err := newOrchestrator(h, &countingLimiter{}).Search(context.Background(), Request{Org: "acme", EventName: "checkoutStarted"})

	require.NoError(t, err)
	assert.Equal(t, types.PhaseExactMatchFailed, res.Phase)
	assert.Equal(t, []string{"checkoutstarted", "checkout", "started"}, res.Guidance.Tokens)
}

func TestSearch_OrgListingFailureIsAnError(t *testing.T) {
	h := &orgHost{reposErr: errors.New("forbidden")}

	_, err := newOrchestrator(h, &countingLimiter{}).Search(context.Background(), Request{Org: "acme", EventName: "X Y"})

	assert.Error(t, err)
}

func TestSearch_RequiresOrgAndEvent(t *testing.T) {
	_, err := newOrchestrator(&orgHost{}, &countingLimiter{}).Search(context.Background(), Request{Org: "acme", EventName: "  "})
	assert.Error(t, err)
}

func TestSearch_UnreachableRepositoryOnlyInErrors(t *testing.T) {
	h := &orgHost{
		hits: []types.CodeSearchHit{hit("broken", "src/a.js"), hit("web", "src/dialogs/share.js")},
		trees: map[string]map[string]map[string]string{
			"web": {"main": {
				"src/dialogs/share.js": "analytics.track('Share Dialog Opened', { channel: 'email' });",
				"src/other.js":         "const x = 1;",
			}},
		},
	}

	res, err := newOrchestrator(h, &countingLimiter{}).Search(context.Background(), Request{
		Org: "acme", EventName: "Share Dialog Opened", Ref: "release",
	})

	require.NoError(t, err)
	assert.Equal(t, types.PhaseExactMatchSuccess, res.Phase)
	assert.Equal(t, []string{"release", "main", "master", "develop", "development", "staging"}, h.treeCalls["broken"])
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken", res.Errors[0].Repository)
	assert.Contains(t, res.Errors[0].Message, "not accessible")

	require.Len(t, res.Repositories, 1)
	web := res.Repositories[0]
	assert.Equal(t, "web", web.Repository)
	assert.Equal(t, "main", web.Branch)
	assert.Equal(t, "exact", web.MatchType)
	require.Len(t, web.Matches, 1)
	m := web.Matches[0]
	assert.Equal(t, "Share Dialog Opened", m.Name)
	assert.Equal(t, "web/src/dialogs/share.js", m.Location.File)
	assert.Equal(t, map[string]any{"channel": "email"}, m.UserProperties())

	assert.Equal(t, 1, res.TotalMatches)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, 1, res.Analysis.TotalOccurrences)
	assert.Equal(t, []types.RepoUsage{{Repository: "web", Occurrences: 1}}, res.Analysis.RepositoryUsage)
}

// throttledHost resolves trees but fails every content fetch.
type throttledHost struct {
	*orgHost
}

func (throttledHost) Content(context.Context, string, string, string, string) ([]byte, error) {
	return nil, errors.New("HTTP 403: secondary rate limit")
}

func TestSearch_FailedFetchesAreRecorded(t *testing.T) {
	h := throttledHost{&orgHost{
		hits: []types.CodeSearchHit{hit("web", "src/player.js")},
		trees: map[string]map[string]map[string]string{
			"web": {"main": {
				"src/player.js": "mixpanel.track('Video Played');",
				"src/index.js":  "const x = 1;",
			}},
		},
	}}

	res, err := newOrchestrator(h, &countingLimiter{}).Search(context.Background(), Request{Org: "acme", EventName: "Video Played"})

	require.NoError(t, err)
	assert.Equal(t, types.PhaseExactMatchSuccess, res.Phase)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Repositories, 1)

	web := res.Repositories[0]
	assert.Zero(t, web.FilesScanned)
	assert.Empty(t, web.Matches)
	require.Len(t, web.FailedFiles, 2)
	var paths []string
	for _, f := range web.FailedFiles {
		paths = append(paths, f.Path)
		assert.Contains(t, f.Error, "rate limit")
	}
	assert.ElementsMatch(t, []string{"src/player.js", "src/index.js"}, paths)
}

func TestSearch_EarlyExitAfterFirstMatchingBatch(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 12; i++ {
		files[fmt.Sprintf("src/f%02d.js", i)] = "track('Video Played');"
	}
	h := &orgHost{
		hits:  []types.CodeSearchHit{hit("player", "src/f00.js")},
		trees: map[string]map[string]map[string]string{"player": {"main": files}},
	}
	l := &countingLimiter{}

	res, err := newOrchestrator(h, l).Search(context.Background(), Request{Org: "acme", EventName: "Video Played"})

	require.NoError(t, err)
	require.Len(t, res.Repositories, 1)
	assert.Equal(t, 5, res.Repositories[0].FilesScanned)
	assert.Len(t, res.Repositories[0].Matches, 5)
	assert.Equal(t, 5, h.fetched["player"])
	assert.Equal(t, 1, l.waits)
}

func TestSearch_ScansAllBatchesWithoutMatch(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 12; i++ {
		files[fmt.Sprintf("src/f%02d.js", i)] = "console.log('nothing here');"
	}
	h := &orgHost{
		hits:  []types.CodeSearchHit{hit("player", "src/f00.js")},
		trees: map[string]map[string]map[string]string{"player": {"main": files}},
	}
	l := &countingLimiter{}

	res, err := newOrchestrator(h, l).Search(context.Background(), Request{Org: "acme", EventName: "Video Played"})

	require.NoError(t, err)
	assert.Equal(t, 12, res.Repositories[0].FilesScanned)
	assert.Empty(t, res.Repositories[0].Matches)
	assert.Equal(t, 3, l.waits)
	assert.Equal(t, 0, res.TotalMatches)
	assert.NotEmpty(t, res.Analysis.Message)
}

func TestSearch_CapsRepositories(t *testing.T) {
	h := &orgHost{hits: []types.CodeSearchHit{
		hit("a", "x.js"), hit("a", "y.js"), hit("b", "x.js"), hit("c", "x.js"),
	}}

	res, err := newOrchestrator(h, &countingLimiter{}).Search(context.Background(), Request{Org: "acme", EventName: "Thing Done", MaxRepos: 2})

	require.NoError(t, err)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "a", res.Errors[0].Repository)
	assert.Equal(t, "b", res.Errors[1].Repository)
}

func TestSearch_CancelledContext(t *testing.T) {
	h := &orgHost{hits: []types.CodeSearchHit{hit("a", "x.js")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(h, Config{Limiter: rate.NewLimiter(rate.Inf, 1)}).Search(ctx, Request{Org: "acme", EventName: "Thing Done"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t,
		`"User Signed Up" org:acme extension:js extension:ts extension:jsx extension:tsx`,
		SearchQuery("acme", "User Signed Up"))
}

func TestBranchCandidates(t *testing.T) {
	assert.Equal(t, []string{"main", "master", "develop", "development", "staging"}, BranchCandidates(""))
	assert.Equal(t, []string{"main", "master", "develop", "development", "staging"}, BranchCandidates("main"))
	assert.Len(t, BranchCandidates("feature/x"), 6)
}

func TestNameMatches(t *testing.T) {
	assert.True(t, NameMatches("User Signed Up", "user signed up"))
	assert.True(t, NameMatches("User Signed Up Completed", "User Signed Up"))
	assert.True(t, NameMatches("Signed Up", "User Signed Up"))
	assert.False(t, NameMatches("Logged In", "User Signed Up"))
}
