// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// ErrInvalidInput wraps every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func required(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"owner", "repo", "path", "org", "event_name"} {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return invalid("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// ScanRepositoryInput is the input of scan_repository.
type ScanRepositoryInput struct {
	Owner           string   `json:"owner" yaml:"owner"`
	Repo            string   `json:"repo" yaml:"repo"`
	Ref             string   `json:"ref,omitempty" yaml:"ref,omitempty"`
	IncludePatterns []string `json:"include_patterns,omitempty" yaml:"include_patterns,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty"`
}

// Validate checks required fields.
func (in ScanRepositoryInput) Validate() error {
	return required(map[string]string{"owner": in.Owner, "repo": in.Repo})
}

// AnalyzeFileInput is the input of analyze_file.
type AnalyzeFileInput struct {
	Owner string `json:"owner" yaml:"owner"`
	Repo  string `json:"repo" yaml:"repo"`
	Path  string `json:"path" yaml:"path"`
	Ref   string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Validate checks required fields.
func (in AnalyzeFileInput) Validate() error {
	return required(map[string]string{"owner": in.Owner, "repo": in.Repo, "path": in.Path})
}

// AnalyzePullRequestInput is the input of analyze_pull_request.
type AnalyzePullRequestInput struct {
	Owner      string `json:"owner" yaml:"owner"`
	Repo       string `json:"repo" yaml:"repo"`
	PullNumber int    `json:"pull_number" yaml:"pull_number"`
}

// Validate checks required fields.
func (in AnalyzePullRequestInput) Validate() error {
	if err := required(map[string]string{"owner": in.Owner, "repo": in.Repo}); err != nil {
		return err
	}
	if in.PullNumber <= 0 {
		return invalid("pull_number must be a positive integer")
	}
	return nil
}

// EventsInput is the input of validate_events and generate_documentation.
type EventsInput struct {
	Events []types.EventInput `json:"events" yaml:"events"`

	// Title heads generated documentation.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Validate requires at least one event and a name on every event.
func (in EventsInput) Validate() error {
	if len(in.Events) == 0 {
		return invalid("events must contain at least one event")
	}
	for i, e := range in.Events {
		if strings.TrimSpace(e.Name) == "" {
			return invalid("events[%d].name is required", i)
		}
	}
	return nil
}

// SearchOrgEventInput is the input of search_org_event.
type SearchOrgEventInput struct {
	Org             string   `json:"org" yaml:"org"`
	EventName       string   `json:"event_name" yaml:"event_name"`
	Ref             string   `json:"ref,omitempty" yaml:"ref,omitempty"`
	IncludePatterns []string `json:"include_patterns,omitempty" yaml:"include_patterns,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty"`
	MaxRepos        int      `json:"max_repos,omitempty" yaml:"max_repos,omitempty"`
}

// maxReposLimit bounds max_repos so one request cannot exhaust the API
// budget.
const maxReposLimit = 100

// Validate checks required fields and bounds.
func (in SearchOrgEventInput) Validate() error {
	if err := required(map[string]string{"org": in.Org, "event_name": in.EventName}); err != nil {
		return err
	}
	if in.MaxRepos < 0 || in.MaxRepos > maxReposLimit {
		return invalid("max_repos must be between 1 and %d", maxReposLimit)
	}
	return nil
}

// Tracking plan formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportTrackingPlanInput is the input of export_tracking_plan.
type ExportTrackingPlanInput struct {
	ScanRepositoryInput `yaml:",inline"`

	// Format is "json" (default) or "yaml".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Validate checks required fields and the format.
func (in ExportTrackingPlanInput) Validate() error {
	if err := in.ScanRepositoryInput.Validate(); err != nil {
		return err
	}
	switch in.Format {
	case "", FormatJSON, FormatYAML:
		return nil
	}
	return invalid("format must be %q or %q", FormatJSON, FormatYAML)
}
