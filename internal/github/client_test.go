// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(types.GitHubConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "test/0.1", MaxRetries: 1},
		BaseURL:    ts.URL,
		Token:      "tok",
	}, ts.Client(), nil)
}

func TestTree(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/web/git/trees/main", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"tree":[{"path":"src","type":"tree"},{"path":"src/a.js","type":"blob"},{"path":"README.md","type":"blob"}]}`)
	}))

	paths, err := c.Tree(context.Background(), "acme", "web", "main")

	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "README.md"}, paths)
}

func TestTree_NotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))

	_, err := c.Tree(context.Background(), "acme", "web", "nope")

	assert.ErrorIs(t, err, codehost.ErrNotFound)
}

func TestContent(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/web/contents/src/my file.js", r.URL.Path)
		assert.Equal(t, "dev", r.URL.Query().Get("ref"))
		assert.Equal(t, rawMediaType, r.Header.Get("Accept"))
		fmt.Fprint(w, "track('Hello World');")
	}))

	data, err := c.Content(context.Background(), "acme", "web", "src/my file.js", "dev")

	require.NoError(t, err)
	assert.Equal(t, "track('Hello World');", string(data))
}

func TestContent_ServerErrorCarriesMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	}))

	_, err := c.Content(context.Background(), "acme", "web", "a.js", "main")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500: boom")
	assert.NotErrorIs(t, err, codehost.ErrNotFound)
}

func TestSearchCode(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/code", r.URL.Path)
		assert.Equal(t, `"Sign Up" org:acme`, r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"total_count":2,"items":[
			{"path":"src/a.js","repository":{"name":"web","full_name":"acme/web"}},
			{"path":"src/b.ts","repository":{"name":"api","full_name":"acme/api"}}]}`)
	}))

	hits, err := c.SearchCode(context.Background(), `"Sign Up" org:acme`)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "web", hits[0].Repository.Name)
	assert.Equal(t, "src/b.ts", hits[1].Path)
}

func TestOrgRepos_Paginates(t *testing.T) {
	var pages []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		if page == "1" {
			fmt.Fprint(w, "[")
			for i := 0; i < perPage; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"name":"repo%d","language":"Go"}`, i)
			}
			fmt.Fprint(w, "]")
			return
		}
		fmt.Fprint(w, `[{"name":"last","language":null,"archived":true,"updated_at":"2026-01-02T03:04:05Z"}]`)
	}))

	repos, err := c.OrgRepos(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, pages)
	require.Len(t, repos, perPage+1)
	last := repos[perPage]
	assert.Equal(t, "last", last.Name)
	assert.Empty(t, last.Language)
	assert.True(t, last.Archived)
	assert.Equal(t, 2026, last.UpdatedAt.Year())
}

func TestPullRequestFiles(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/web/pulls/7/files", r.URL.Path)
		fmt.Fprint(w, `[{"filename":"src/a.js","status":"modified","additions":1,"deletions":0,"patch":"@@ -1,0 +1,1 @@\n+track('X Event');"}]`)
	}))

	files, err := c.PullRequestFiles(context.Background(), "acme", "web", 7)

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "src/a.js", files[0].Filename)
	assert.Equal(t, "modified", files[0].Status)
	assert.Contains(t, files[0].Patch, "X Event")
}
