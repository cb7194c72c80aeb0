// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package github implements codehost.Host against the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/internal/httputil"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

const (
	perPage  = 100
	maxPages = 10

	rawMediaType  = "application/vnd.github.raw+json"
	jsonMediaType = "application/vnd.github+json"
	apiVersion    = "2022-11-28"
)

// Client talks to the GitHub REST API.
type Client struct {
	http    *http.Client
	cfg     types.GitHubConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ codehost.Host = (*Client)(nil)

// New returns a client for cfg. A nil httpClient gets one with cfg.Timeout;
// a nil logger uses slog.Default().
func New(cfg types.GitHubConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		http:    httpClient,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Tree lists the blob paths of owner/repo at ref.
func (c *Client) Tree(ctx context.Context, owner, repo, ref string) ([]string, error) {
	var tr treeResponse
	p := fmt.Sprintf("/repos/%s/%s/git/trees/%s", url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(ref))
	if err := c.getJSON(ctx, p, url.Values{"recursive": {"1"}}, &tr); err != nil {
		return nil, fmt.Errorf("listing tree %s/%s@%s: %w", owner, repo, ref, err)
	}
	if tr.Truncated {
		c.logger.WarnContext(ctx, "tree listing truncated", "repo", owner+"/"+repo, "ref", ref, "entries", len(tr.Tree))
	}
	paths := make([]string, 0, len(tr.Tree))
	for _, e := range tr.Tree {
		if e.Type == "blob" {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}

// Content returns the raw bytes of path at ref.
func (c *Client) Content(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	p := fmt.Sprintf("/repos/%s/%s/contents/%s", url.PathEscape(owner), url.PathEscape(repo), escapePath(path))
	q := url.Values{}
	if ref != "" {
		q.Set("ref", ref)
	}
	resp, err := c.do(ctx, p, q, rawMediaType)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s/%s: %w", owner, repo, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s/%s: %w", owner, repo, path, err)
	}
	return data, nil
}

// SearchCode runs a code search query and returns one hit per file.
func (c *Client) SearchCode(ctx context.Context, query string) ([]types.CodeSearchHit, error) {
	var sr searchResponse
	q := url.Values{"q": {query}, "per_page": {strconv.Itoa(perPage)}}
	if err := c.getJSON(ctx, "/search/code", q, &sr); err != nil {
		return nil, fmt.Errorf("searching code: %w", err)
	}
	hits := make([]types.CodeSearchHit, 0, len(sr.Items))
	for _, it := range sr.Items {
		hits = append(hits, types.CodeSearchHit{
			Path:       it.Path,
			Repository: it.Repository.toRepository(),
		})
	}
	return hits, nil
}

// OrgRepos lists the organization's repositories, following pagination up
// to maxPages pages.
func (c *Client) OrgRepos(ctx context.Context, org string) ([]types.Repository, error) {
	var repos []types.Repository
	for page := 1; page <= maxPages; page++ {
		var batch []repoJSON
		q := url.Values{"per_page": {strconv.Itoa(perPage)}, "page": {strconv.Itoa(page)}, "sort": {"updated"}}
		if err := c.getJSON(ctx, "/orgs/"+url.PathEscape(org)+"/repos", q, &batch); err != nil {
			return nil, fmt.Errorf("listing repositories of %s: %w", org, err)
		}
		for _, r := range batch {
			repos = append(repos, r.toRepository())
		}
		if len(batch) < perPage {
			break
		}
	}
	return repos, nil
}

// PullRequestFiles lists the files changed by a pull request.
func (c *Client) PullRequestFiles(ctx context.Context, owner, repo string, number int) ([]types.ChangedFile, error) {
	var files []types.ChangedFile
	p := fmt.Sprintf("/repos/%s/%s/pulls/%d/files", url.PathEscape(owner), url.PathEscape(repo), number)
	for page := 1; page <= maxPages; page++ {
		var batch []types.ChangedFile
		q := url.Values{"per_page": {strconv.Itoa(perPage)}, "page": {strconv.Itoa(page)}}
		if err := c.getJSON(ctx, p, q, &batch); err != nil {
			return nil, fmt.Errorf("listing files of %s/%s#%d: %w", owner, repo, number, err)
		}
		files = append(files, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return files, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	resp, err := c.do(ctx, path, q, jsonMediaType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// do issues a paced GET and maps error statuses. The caller closes the body
// of a successful response.
func (c *Client) do(ctx context.Context, path string, q url.Values, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.cfg.BaseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("GitHub API request: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusUnprocessableEntity:
		resp.Body.Close()
		return nil, fmt.Errorf("GitHub API returned HTTP %d: %w", resp.StatusCode, codehost.ErrNotFound)
	default:
		msg := apiMessage(resp.Body)
		resp.Body.Close()
		if msg != "" {
			return nil, fmt.Errorf("GitHub API returned HTTP %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("GitHub API returned HTTP %d", resp.StatusCode)
	}
}

// apiMessage extracts the "message" field of a GitHub error body.
func apiMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}

// escapePath escapes each segment of a repository path.
func escapePath(p string) string {
	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// GitHub API JSON structures.
type treeResponse struct {
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	Path       string   `json:"path"`
	Repository repoJSON `json:"repository"`
}

type repoJSON struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Language      string    `json:"language"`
	Archived      bool      `json:"archived"`
	UpdatedAt     time.Time `json:"updated_at"`
	DefaultBranch string    `json:"default_branch"`
	HTMLURL       string    `json:"html_url"`
}

func (r repoJSON) toRepository() types.Repository {
	return types.Repository{
		Name:          r.Name,
		FullName:      r.FullName,
		Language:      r.Language,
		Archived:      r.Archived,
		UpdatedAt:     r.UpdatedAt,
		DefaultBranch: r.DefaultBranch,
		HTMLURL:       r.HTMLURL,
	}
}
