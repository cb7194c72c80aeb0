// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orgsearch locates a named analytics event across the
// repositories of an organization.
//
// The search runs in two phases. The exact-match phase asks the code host's
// search for the quoted event name, then scans a prioritized sample of files
// in each matching repository and confirms occurrences with the extraction
// engine. When code search finds nothing, the fallback phase lists the
// organization's repositories and returns guidance for a manual follow-up
// instead of scanning blindly.
package orgsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/internal/crossrepo"
	"github.com/pdiddy/analytics-scout/internal/extract"
	"github.com/pdiddy/analytics-scout/internal/metrics"
	"github.com/pdiddy/analytics-scout/internal/scan"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

const (
	component = "orgsearch"

	matchTypeExact = "exact"
)

// fallbackBranches are tried, in order, after the requested ref.
var fallbackBranches = []string{"main", "master", "develop", "development", "staging"}

// searchExtensions restrict the code search to script sources.
var searchExtensions = []string{"js", "ts", "jsx", "tsx"}

// ErrNotAccessible is recorded for a repository whose tree does not resolve
// on any candidate branch.
var ErrNotAccessible = errors.New("repository not accessible on any candidate branch")

// Request describes one organization search.
type Request struct {
	Org       string
	EventName string
	Ref       string
	Include   []string
	Exclude   []string
	MaxRepos  int
}

// Config configures an Orchestrator.
type Config struct {
	Search types.OrgSearchConfig

	// Include and Exclude are the default file filters.
	Include []string
	Exclude []string

	// Limiter paces fetch batches. Nil builds one from Search.BatchDelay.
	Limiter Limiter

	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// Orchestrator runs organization searches. It keeps no per-request state
// and may serve concurrent searches.
type Orchestrator struct {
	host    codehost.Host
	cfg     Config
	engine  *extract.Engine
	limiter Limiter
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New returns an Orchestrator over host.
func New(host codehost.Host, cfg Config) *Orchestrator {
	defaults := types.DefaultConfig()
	if cfg.Search.MaxRepos <= 0 {
		cfg.Search.MaxRepos = defaults.OrgSearch.MaxRepos
	}
	if cfg.Search.MaxFiles <= 0 {
		cfg.Search.MaxFiles = defaults.OrgSearch.MaxFiles
	}
	if cfg.Search.BatchSize <= 0 {
		cfg.Search.BatchSize = defaults.OrgSearch.BatchSize
	}
	if len(cfg.Include) == 0 {
		cfg.Include = defaults.Scan.Include
	}
	if len(cfg.Exclude) == 0 {
		cfg.Exclude = defaults.Scan.Exclude
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLimiter(cfg.Search.BatchDelay)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		host:    host,
		cfg:     cfg,
		engine:  extract.New(extract.Options{PriorityLiterals: true}),
		limiter: limiter,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// Search runs the exact-match phase and, when it finds no repository, the
// fallback phase. Per-repository failures are reported in the result; only
// invalid input, cancellation and a failed organization listing return an
// error.
func (o *Orchestrator) Search(ctx context.Context, req Request) (types.SearchResult, error) {
	req.Org = strings.TrimSpace(req.Org)
	req.EventName = strings.TrimSpace(req.EventName)
	if req.Org == "" || req.EventName == "" {
		return types.SearchResult{}, errors.New("org and event_name are required")
	}
	if req.MaxRepos <= 0 {
		req.MaxRepos = o.cfg.Search.MaxRepos
	}

	res := types.SearchResult{
		Org:          req.Org,
		EventName:    req.EventName,
		Repositories: []types.RepoMatches{},
	}

	repos := o.exactMatchRepos(ctx, req)
	if len(repos) == 0 {
		g, err := o.guidance(ctx, req)
		if err != nil {
			return types.SearchResult{}, err
		}
		res.Phase = types.PhaseExactMatchFailed
		res.Guidance = &g
		return res, nil
	}

	res.Phase = types.PhaseExactMatchSuccess
	matcher := scan.NewMatcher(firstNonEmpty(req.Include, o.cfg.Include), firstNonEmpty(req.Exclude, o.cfg.Exclude))
	var all []types.Candidate
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return types.SearchResult{}, fmt.Errorf("searching %s: %w", req.Org, err)
		}
		rm, err := o.scanRepository(ctx, req, repo, matcher)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return types.SearchResult{}, fmt.Errorf("searching %s: %w", req.Org, ctxErr)
			}
			if errors.Is(err, ErrNotAccessible) {
				o.metrics.RepositoryInaccessible()
			}
			o.logger.WarnContext(ctx, "repository skipped", "repository", repo.Name, "error", err)
			res.Errors = append(res.Errors, types.RepoError{Repository: repo.Name, Message: err.Error()})
			continue
		}
		res.Repositories = append(res.Repositories, rm)
		res.TotalMatches += len(rm.Matches)
		all = append(all, rm.Matches...)
	}

	analysis := crossrepo.Analyze(all, req.EventName)
	res.Analysis = &analysis
	o.logger.InfoContext(ctx, "organization search complete",
		"org", req.Org, "event", req.EventName,
		"repositories", len(res.Repositories), "errors", len(res.Errors), "matches", res.TotalMatches)
	return res, nil
}

// SearchQuery builds the exact-match code search query.
func SearchQuery(org, eventName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q org:%s", eventName, org)
	for _, ext := range searchExtensions {
		b.WriteString(" extension:")
		b.WriteString(ext)
	}
	return b.String()
}

// exactMatchRepos returns the distinct repositories holding the quoted
// event name, capped at req.MaxRepos. A failed search counts as no hits.
func (o *Orchestrator) exactMatchRepos(ctx context.Context, req Request) []types.Repository {
	hits, err := o.host.SearchCode(ctx, SearchQuery(req.Org, req.EventName))
	if err != nil {
		o.logger.WarnContext(ctx, "code search failed, falling back", "org", req.Org, "error", err)
		return nil
	}
	seen := map[string]bool{}
	var out []types.Repository
	for _, h := range hits {
		name := h.Repository.Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, h.Repository)
		if len(out) == req.MaxRepos {
			break
		}
	}
	o.logger.DebugContext(ctx, "code search", "org", req.Org, "hits", len(hits), "repositories", len(out))
	return out
}

// BranchCandidates lists the refs tried during branch discovery: ref
// first, then the common branch names, without duplicates.
func BranchCandidates(ref string) []string {
	var out []string
	seen := map[string]bool{}
	for _, b := range append([]string{ref}, fallbackBranches...) {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// discoverBranch returns the tree of the first candidate branch that
// resolves.
func (o *Orchestrator) discoverBranch(ctx context.Context, owner, repo, ref string) (string, []string, error) {
	for _, b := range BranchCandidates(ref) {
		tree, err := o.host.Tree(ctx, owner, repo, b)
		if err == nil {
			return b, tree, nil
		}
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		o.logger.DebugContext(ctx, "branch did not resolve", "repository", repo, "branch", b, "error", err)
	}
	return "", nil, ErrNotAccessible
}

// scanRepository scans the prioritized files of one repository batch by
// batch and stops after the first batch that confirms a match.
func (o *Orchestrator) scanRepository(ctx context.Context, req Request, repo types.Repository, matcher *scan.Matcher) (types.RepoMatches, error) {
	branch, tree, err := o.discoverBranch(ctx, req.Org, repo.Name, req.Ref)
	if err != nil {
		return types.RepoMatches{}, err
	}
	files := Prioritize(matcher.Filter(tree), req.EventName, o.cfg.Search.MaxFiles)

	rm := types.RepoMatches{
		Repository: repo.Name,
		Branch:     branch,
		MatchType:  matchTypeExact,
		Matches:    []types.Candidate{},
	}
	for _, batch := range scan.Batches(files, o.cfg.Search.BatchSize) {
		if err := o.limiter.Wait(ctx); err != nil {
			return types.RepoMatches{}, fmt.Errorf("waiting for rate limiter: %w", err)
		}
		for _, f := range scan.FetchBatch(ctx, o.host, req.Org, repo.Name, branch, batch) {
			if f.Err != nil {
				o.metrics.FileFailed(component)
				o.logger.WarnContext(ctx, "file skipped", "repository", repo.Name, "path", f.Path, "error", f.Err)
				rm.FailedFiles = append(rm.FailedFiles, types.FileError{Path: f.Path, Error: f.Err.Error()})
				continue
			}
			o.metrics.FileFetched(component)
			rm.FilesScanned++
			rm.Matches = append(rm.Matches, o.matchFile(repo.Name, f, req.EventName)...)
		}
		if len(rm.Matches) > 0 {
			break
		}
	}
	o.logger.InfoContext(ctx, "repository scanned",
		"repository", repo.Name, "branch", branch, "files", rm.FilesScanned,
		"failed", len(rm.FailedFiles), "matches", len(rm.Matches))
	return rm, nil
}

// matchFile extracts from a file that mentions eventName and keeps the
// candidates whose name relates to it. Locations are prefixed with the
// repository name.
func (o *Orchestrator) matchFile(repoName string, f scan.File, eventName string) []types.Candidate {
	content := string(f.Content)
	if !strings.Contains(content, eventName) {
		return nil
	}
	var out []types.Candidate
	for _, c := range o.engine.Extract(content, f.Path) {
		if !NameMatches(c.Name, eventName) {
			continue
		}
		o.metrics.CandidateExtracted(string(c.Classification()))
		c.Location.File = repoName + "/" + c.Location.File
		out = append(out, c)
	}
	return out
}

// NameMatches reports whether a candidate name equals, contains or is
// contained by the target, ignoring case.
func NameMatches(name, target string) bool {
	n, t := strings.ToLower(name), strings.ToLower(target)
	return strings.Contains(n, t) || strings.Contains(t, n)
}

func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}
