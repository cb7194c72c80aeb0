// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan extracts analytics events from a whole repository, a single
// file or the added lines of a pull request. Files are fetched in
// fixed-size concurrent batches; a file that fails to fetch is recorded and
// skipped without aborting the scan.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/analytics-scout/internal/analyze"
	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/internal/extract"
	"github.com/pdiddy/analytics-scout/internal/metrics"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

const (
	component = "scan"

	// DefaultRef is scanned when a request names no ref.
	DefaultRef = "HEAD"
)

// Request identifies the repository content to scan. Empty Include or
// Exclude lists fall back to the scanner's configured defaults.
type Request struct {
	Owner   string
	Repo    string
	Ref     string
	Include []string
	Exclude []string
}

// FileError records a file that could not be processed.
type FileError = types.FileError

// Result holds the outcome of a repository scan.
type Result struct {
	Repository     string               `json:"repository" yaml:"repository"`
	Ref            string               `json:"ref" yaml:"ref"`
	Events         []types.Candidate    `json:"events" yaml:"events"`
	Summary        []types.EventSummary `json:"summary" yaml:"summary"`
	Quality        types.QualityReport  `json:"quality" yaml:"quality"`
	TotalFiles     int                  `json:"total_files" yaml:"total_files"`
	ProcessedFiles []string             `json:"processed_files" yaml:"processed_files"`
	ErrorFiles     []FileError          `json:"error_files,omitempty" yaml:"error_files,omitempty"`
}

// Scanner scans repositories through a codehost.Host.
type Scanner struct {
	host    codehost.Host
	cfg     types.ScanConfig
	engine  *extract.Engine
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New returns a Scanner. A nil logger uses slog.Default(); a nil recorder
// disables metrics.
func New(host codehost.Host, cfg types.ScanConfig, logger *slog.Logger, rec *metrics.Recorder) *Scanner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = types.DefaultConfig().Scan.BatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		host:    host,
		cfg:     cfg,
		engine:  extract.New(extract.Options{}),
		logger:  logger,
		metrics: rec,
	}
}

// Matcher returns the file filter for req, using the configured defaults
// for empty lists.
func (s *Scanner) Matcher(include, exclude []string) *Matcher {
	if len(include) == 0 {
		include = s.cfg.Include
	}
	if len(exclude) == 0 {
		exclude = s.cfg.Exclude
	}
	return NewMatcher(include, exclude)
}

// Scan lists the repository tree, filters it and extracts events from every
// matching file. Only a tree listing failure is returned as an error.
func (s *Scanner) Scan(ctx context.Context, req Request) (Result, error) {
	if req.Owner == "" || req.Repo == "" {
		return Result{}, errors.New("owner and repo are required")
	}
	ref := req.Ref
	if ref == "" {
		ref = DefaultRef
	}

	paths, err := s.host.Tree(ctx, req.Owner, req.Repo, ref)
	if err != nil {
		return Result{}, fmt.Errorf("scanning %s/%s: %w", req.Owner, req.Repo, err)
	}
	files := s.Matcher(req.Include, req.Exclude).Filter(paths)

	res := Result{
		Repository:     req.Owner + "/" + req.Repo,
		Ref:            ref,
		Events:         []types.Candidate{},
		TotalFiles:     len(files),
		ProcessedFiles: []string{},
	}
	s.logger.InfoContext(ctx, "scanning repository",
		"repository", res.Repository, "ref", ref, "files", len(files), "tree_size", len(paths))

	for i, batch := range Batches(files, s.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("scanning %s: %w", res.Repository, err)
		}
		s.logger.DebugContext(ctx, "fetching batch", "batch", i+1, "files", len(batch))
		for _, f := range FetchBatch(ctx, s.host, req.Owner, req.Repo, ref, batch) {
			if f.Err != nil {
				s.metrics.FileFailed(component)
				s.logger.WarnContext(ctx, "file skipped", "path", f.Path, "error", f.Err)
				res.ErrorFiles = append(res.ErrorFiles, FileError{Path: f.Path, Error: f.Err.Error()})
				continue
			}
			s.metrics.FileFetched(component)
			cands := s.extract(string(f.Content), f.Path)
			res.Events = append(res.Events, cands...)
			res.ProcessedFiles = append(res.ProcessedFiles, f.Path)
		}
	}

	res.Summary = analyze.Summarize(res.Events)
	res.Quality = analyze.Analyze(res.Events)
	s.logger.InfoContext(ctx, "scan complete",
		"repository", res.Repository, "events", len(res.Events),
		"processed", len(res.ProcessedFiles), "failed", len(res.ErrorFiles))
	return res, nil
}

// FileResult holds the events found in a single file.
type FileResult struct {
	Repository string              `json:"repository" yaml:"repository"`
	Path       string              `json:"path" yaml:"path"`
	Ref        string              `json:"ref" yaml:"ref"`
	Events     []types.Candidate   `json:"events" yaml:"events"`
	Quality    types.QualityReport `json:"quality" yaml:"quality"`
}

// AnalyzeFile extracts events from one file.
func (s *Scanner) AnalyzeFile(ctx context.Context, owner, repo, path, ref string) (FileResult, error) {
	if owner == "" || repo == "" || path == "" {
		return FileResult{}, errors.New("owner, repo and path are required")
	}
	if ref == "" {
		ref = DefaultRef
	}
	content, err := s.host.Content(ctx, owner, repo, path, ref)
	if err != nil {
		s.metrics.FileFailed(component)
		return FileResult{}, fmt.Errorf("analyzing %s: %w", path, err)
	}
	s.metrics.FileFetched(component)

	cands := s.extract(string(content), path)
	if cands == nil {
		cands = []types.Candidate{}
	}
	return FileResult{
		Repository: owner + "/" + repo,
		Path:       path,
		Ref:        ref,
		Events:     cands,
		Quality:    analyze.Analyze(cands),
	}, nil
}

func (s *Scanner) extract(content, path string) []types.Candidate {
	cands := s.engine.Extract(content, path)
	for _, c := range cands {
		s.metrics.CandidateExtracted(string(c.Classification()))
	}
	return cands
}
