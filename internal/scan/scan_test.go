// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/internal/metrics"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// fakeHost serves a fixed file set for one repository.
type fakeHost struct {
	files    map[string]string
	fail     map[string]bool
	treeErr  error
	prFiles  []types.ChangedFile
	inFlight atomic.Int32
	peak     atomic.Int32

	mu      sync.Mutex
	fetched []string
}

func (h *fakeHost) Tree(_ context.Context, _, _, _ string) ([]string, error) {
	if h.treeErr != nil {
		return nil, h.treeErr
	}
	var out []string
	for p := range h.files {
		out = append(out, p)
	}
	for p := range h.fail {
		out = append(out, p)
	}
	return out, nil
}

func (h *fakeHost) Content(_ context.Context, _, _, path, _ string) ([]byte, error) {
	n := h.inFlight.Add(1)
	defer h.inFlight.Add(-1)
	for {
		p := h.peak.Load()
		if n <= p || h.peak.CompareAndSwap(p, n) {
			break
		}
	}
	h.mu.Lock()
	h.fetched = append(h.fetched, path)
	h.mu.Unlock()
	if h.fail[path] {
		return nil, errors.New("boom")
	}
	c, ok := h.files[path]
	if !ok {
		return nil, codehost.ErrNotFound
	}
	return []byte(c), nil
}

func (h *fakeHost) SearchCode(context.Context, string) ([]types.CodeSearchHit, error) {
	return nil, nil
}

func (h *fakeHost) OrgRepos(context.Context, string) ([]types.Repository, error) {
	return nil, nil
}

func (h *fakeHost) PullRequestFiles(context.Context, string, string, int) ([]types.ChangedFile, error) {
	return h.prFiles, nil
}

func newScanner(h codehost.Host) *Scanner {
	return New(h, types.DefaultConfig().Scan, nil, nil)
}

func TestScan_ExtractsFromMatchingFiles(t *testing.T) {
	h := &fakeHost{files: map[string]string{
		"src/signup.js":             "analytics.track('User Signed Up', { user_id: 1 })",
		"src/app.ts":                "track('App Opened');",
		"node_modules/lib/index.js": "track('Ignored Event');",
		"README.md":                 "track('Not Code');",
	}}

	res, err := newScanner(h).Scan(context.Background(), Request{Owner: "acme", Repo: "web"})

	require.NoError(t, err)
	assert.Equal(t, "acme/web", res.Repository)
	assert.Equal(t, DefaultRef, res.Ref)
	assert.Equal(t, 2, res.TotalFiles)
	assert.ElementsMatch(t, []string{"src/signup.js", "src/app.ts"}, res.ProcessedFiles)
	assert.Empty(t, res.ErrorFiles)

	var names []string
	for _, e := range res.Events {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"User Signed Up", "App Opened"}, names)
	assert.Len(t, res.Summary, 2)
	assert.Less(t, res.Quality.Score, 100)
}

func TestScan_FileFailuresAreIsolated(t *testing.T) {
	h := &fakeHost{
		files: map[string]string{"src/a.js": "track('A Event');"},
		fail:  map[string]bool{"src/b.js": true},
	}
	rec := metrics.New()

	res, err := New(h, types.DefaultConfig().Scan, nil, rec).Scan(context.Background(), Request{Owner: "o", Repo: "r"})

	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js"}, res.ProcessedFiles)
	require.Len(t, res.ErrorFiles, 1)
	assert.Equal(t, "src/b.js", res.ErrorFiles[0].Path)
	assert.Contains(t, res.ErrorFiles[0].Error, "boom")
	require.Len(t, res.Events, 1)
}

func TestScan_TreeFailureIsAnError(t *testing.T) {
	h := &fakeHost{treeErr: codehost.ErrNotFound}

	_, err := newScanner(h).Scan(context.Background(), Request{Owner: "o", Repo: "r", Ref: "nope"})

	require.Error(t, err)
	assert.ErrorIs(t, err, codehost.ErrNotFound)
}

func TestScan_RequiresOwnerAndRepo(t *testing.T) {
	_, err := newScanner(&fakeHost{}).Scan(context.Background(), Request{Owner: "o"})
	assert.Error(t, err)
}

func TestScan_BatchesBoundConcurrency(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 25; i++ {
		files["src/f"+string(rune('a'+i))+".js"] = "track('Some Event');"
	}
	h := &fakeHost{files: files}
	cfg := types.DefaultConfig().Scan
	cfg.BatchSize = 4

	res, err := New(h, cfg, nil, nil).Scan(context.Background(), Request{Owner: "o", Repo: "r"})

	require.NoError(t, err)
	assert.Len(t, res.ProcessedFiles, 25)
	assert.LessOrEqual(t, h.peak.Load(), int32(4))
}

func TestScan_CustomFilters(t *testing.T) {
	h := &fakeHost{files: map[string]string{
		"lib/a.js":     "track('A Event');",
		"src/b.ts":     "track('B Event');",
		"src/c.ts":     "track('C Event');",
		"src/gen/d.ts": "track('D Event');",
	}}

	res, err := newScanner(h).Scan(context.Background(), Request{
		Owner: "o", Repo: "r",
		Include: []string{"src/**/*.ts"},
		Exclude: []string{"gen/"},
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/b.ts", "src/c.ts"}, res.ProcessedFiles)
}

func TestAnalyzeFile(t *testing.T) {
	h := &fakeHost{files: map[string]string{"src/a.js": "track('A Event');\ntrack('b_event', { userId: 1 });"}}

	res, err := newScanner(h).AnalyzeFile(context.Background(), "o", "r", "src/a.js", "main")

	require.NoError(t, err)
	assert.Equal(t, "src/a.js", res.Path)
	assert.Equal(t, "main", res.Ref)
	require.Len(t, res.Events, 2)
	assert.NotEmpty(t, res.Quality.Issues)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	_, err := newScanner(&fakeHost{}).AnalyzeFile(context.Background(), "o", "r", "nope.js", "")
	assert.ErrorIs(t, err, codehost.ErrNotFound)
}

func TestAnalyzePullRequest_AddedLinesOnly(t *testing.T) {
	patch := "@@ -10,3 +10,4 @@ export function submit() {\n" +
		"   const x = 1;\n" +
		"-  track('Old Event');\n" +
		"+  track('New Event', { userId: 1 });\n" +
		"   track('Context Event');\n" +
		"+  done();\n"
	h := &fakeHost{prFiles: []types.ChangedFile{
		{Filename: "src/checkout.js", Status: "modified", Patch: patch},
		{Filename: "src/gone.js", Status: "removed", Patch: "@@ -1 +0,0 @@\n-track('Gone Event');"},
		{Filename: "docs/readme.md", Status: "added", Patch: "@@ -0,0 +1 @@\n+track('Doc Event');"},
		{Filename: "src/big.js", Status: "modified"},
	}}

	res, err := newScanner(h).AnalyzePullRequest(context.Background(), "o", "r", 7)

	require.NoError(t, err)
	assert.Equal(t, 7, res.Number)
	require.Len(t, res.Files, 1)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "New Event", res.Events[0].Name)
	assert.Equal(t, 11, res.Events[0].Location.Line)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "src/big.js", res.Skipped[0].Path)
}

func TestAnalyzePullRequest_InvalidNumber(t *testing.T) {
	_, err := newScanner(&fakeHost{}).AnalyzePullRequest(context.Background(), "o", "r", 0)
	assert.Error(t, err)
}

func TestNewSide(t *testing.T) {
	patch := "@@ -1,2 +1,3 @@\n a\n+b\n c\n@@ -20,1 +21,2 @@\n x\n+y"

	content, added := NewSide(patch)

	lines := splitLines(content)
	require.Len(t, lines, 22)
	assert.Equal(t, "a", lines[0])
	assert.Equal(t, "b", lines[1])
	assert.Equal(t, "c", lines[2])
	assert.Equal(t, "x", lines[20])
	assert.Equal(t, "y", lines[21])
	assert.Equal(t, map[int]bool{2: true, 22: true}, added)
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
