// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package service exposes the seven named analytics operations behind one
// boundary. Every operation returns a Result: failures of any kind,
// including invalid input and panics, are reported in Result.Error and
// never escape as Go errors. The MCP server, the HTTP API and the CLI are
// thin adapters over a Service.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/analytics-scout/internal/analyze"
	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/internal/docs"
	"github.com/pdiddy/analytics-scout/internal/metrics"
	"github.com/pdiddy/analytics-scout/internal/orgsearch"
	"github.com/pdiddy/analytics-scout/internal/scan"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// Result is the outcome of one operation.
type Result struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`

	invalid bool
}

// InvalidInput reports whether the operation was rejected before running
// because its input was malformed or incomplete.
func (r Result) InvalidInput() bool {
	return r.invalid
}

func invalidResult(err error) Result {
	return Result{Error: err.Error(), invalid: true}
}

// Service runs operations against one code host. It is safe for
// concurrent use; each call builds its own result.
type Service struct {
	scanner *scan.Scanner
	search  *orgsearch.Orchestrator
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder

	// Limiter overrides the organization search batch limiter.
	Limiter orgsearch.Limiter
}

// New builds a Service over host.
func New(host codehost.Host, cfg types.Config, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		scanner: scan.New(host, cfg.Scan, logger, opts.Metrics),
		search: orgsearch.New(host, orgsearch.Config{
			Search:  cfg.OrgSearch,
			Include: cfg.Scan.Include,
			Exclude: cfg.Scan.Exclude,
			Limiter: opts.Limiter,
			Logger:  logger,
			Metrics: opts.Metrics,
		}),
		logger:  logger,
		metrics: opts.Metrics,
	}
}

type validator interface {
	Validate() error
}

// run validates in, calls fn and converts its outcome into a Result.
func (s *Service) run(ctx context.Context, op string, in validator, fn func() (any, error)) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "operation panicked", "operation", op, "panic", r)
			res = Result{Error: fmt.Sprintf("%s: internal error", op)}
		}
		s.metrics.Operation(op, res.OK, time.Since(start))
	}()

	if err := in.Validate(); err != nil {
		return invalidResult(err)
	}
	data, err := fn()
	if err != nil {
		s.logger.WarnContext(ctx, "operation failed", "operation", op, "error", err)
		return Result{Error: err.Error()}
	}
	return Result{OK: true, Data: data}
}

// ScanRepository scans a repository for events.
func (s *Service) ScanRepository(ctx context.Context, in ScanRepositoryInput) Result {
	return s.run(ctx, OpScanRepository, in, func() (any, error) {
		return s.scanner.Scan(ctx, scanRequest(in))
	})
}

// AnalyzeFile extracts events from one file.
func (s *Service) AnalyzeFile(ctx context.Context, in AnalyzeFileInput) Result {
	return s.run(ctx, OpAnalyzeFile, in, func() (any, error) {
		return s.scanner.AnalyzeFile(ctx, in.Owner, in.Repo, in.Path, in.Ref)
	})
}

// AnalyzePullRequest extracts the events a pull request adds.
func (s *Service) AnalyzePullRequest(ctx context.Context, in AnalyzePullRequestInput) Result {
	return s.run(ctx, OpAnalyzePullRequest, in, func() (any, error) {
		return s.scanner.AnalyzePullRequest(ctx, in.Owner, in.Repo, in.PullNumber)
	})
}

// EventValidation is the quality report of one input event.
type EventValidation struct {
	Name   string              `json:"name" yaml:"name"`
	Report types.QualityReport `json:"report" yaml:"report"`
}

// Validation is the result of validate_events.
type Validation struct {
	Total   int                 `json:"total" yaml:"total"`
	Quality types.QualityReport `json:"quality" yaml:"quality"`
	Events  []EventValidation   `json:"events" yaml:"events"`
}

// ValidateEvents checks caller-supplied events against the naming and
// property conventions.
func (s *Service) ValidateEvents(ctx context.Context, in EventsInput) Result {
	return s.run(ctx, OpValidateEvents, in, func() (any, error) {
		cands := types.Candidates(in.Events)
		v := Validation{
			Total:   len(cands),
			Quality: analyze.Analyze(cands),
			Events:  make([]EventValidation, 0, len(cands)),
		}
		for _, c := range cands {
			v.Events = append(v.Events, EventValidation{Name: c.Name, Report: analyze.Analyze([]types.Candidate{c})})
		}
		return v, nil
	})
}

// GenerateDocumentation renders caller-supplied events as Markdown. Data
// is the Markdown text.
func (s *Service) GenerateDocumentation(ctx context.Context, in EventsInput) Result {
	return s.run(ctx, OpGenerateDocs, in, func() (any, error) {
		return docs.Markdown(in.Title, types.Candidates(in.Events)), nil
	})
}

// SearchOrgEvent locates an event across an organization.
func (s *Service) SearchOrgEvent(ctx context.Context, in SearchOrgEventInput) Result {
	return s.run(ctx, OpSearchOrgEvent, in, func() (any, error) {
		return s.search.Search(ctx, orgsearch.Request{
			Org:       in.Org,
			EventName: in.EventName,
			Ref:       in.Ref,
			Include:   in.IncludePatterns,
			Exclude:   in.ExcludePatterns,
			MaxRepos:  in.MaxRepos,
		})
	})
}

// ExportTrackingPlan scans a repository and returns its tracking plan. With
// the YAML format Data is the YAML text.
func (s *Service) ExportTrackingPlan(ctx context.Context, in ExportTrackingPlanInput) Result {
	return s.run(ctx, OpExportTrackingPlan, in, func() (any, error) {
		res, err := s.scanner.Scan(ctx, scanRequest(in.ScanRepositoryInput))
		if err != nil {
			return nil, err
		}
		plan := TrackingPlan(res)
		if in.Format == FormatYAML {
			return MarshalPlanYAML(plan)
		}
		return plan, nil
	})
}

func scanRequest(in ScanRepositoryInput) scan.Request {
	return scan.Request{
		Owner:   in.Owner,
		Repo:    in.Repo,
		Ref:     in.Ref,
		Include: in.IncludePatterns,
		Exclude: in.ExcludePatterns,
	}
}

// Call decodes raw JSON arguments for the named operation and runs it.
// Unknown operations and malformed or unknown fields are reported in the
// Result.
func (s *Service) Call(ctx context.Context, name string, raw json.RawMessage) Result {
	switch name {
	case OpScanRepository:
		return call(ctx, raw, s.ScanRepository)
	case OpAnalyzeFile:
		return call(ctx, raw, s.AnalyzeFile)
	case OpAnalyzePullRequest:
		return call(ctx, raw, s.AnalyzePullRequest)
	case OpValidateEvents:
		return call(ctx, raw, s.ValidateEvents)
	case OpGenerateDocs:
		return call(ctx, raw, s.GenerateDocumentation)
	case OpSearchOrgEvent:
		return call(ctx, raw, s.SearchOrgEvent)
	case OpExportTrackingPlan:
		return call(ctx, raw, s.ExportTrackingPlan)
	}
	return invalidResult(fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, name))
}

func call[T any](ctx context.Context, raw json.RawMessage, fn func(context.Context, T) Result) Result {
	var in T
	if err := Decode(raw, &in); err != nil {
		return invalidResult(err)
	}
	return fn(ctx, in)
}

// Decode strictly decodes JSON arguments into v. Empty input decodes as an
// empty object.
func Decode(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after arguments", ErrInvalidInput)
	}
	return nil
}
