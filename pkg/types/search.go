// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Search phases reported by the organization search.
const (
	PhaseExactMatchSuccess = "exact_match_success"
	PhaseExactMatchFailed  = "exact_match_failed"
)

// Repository is the subset of code-hosting repository metadata the search
// relies on.
type Repository struct {
	Name          string    `json:"name" yaml:"name"`
	FullName      string    `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Language      string    `json:"language,omitempty" yaml:"language,omitempty"`
	Archived      bool      `json:"archived" yaml:"archived"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
	DefaultBranch string    `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
	HTMLURL       string    `json:"html_url,omitempty" yaml:"html_url,omitempty"`
}

// CodeSearchHit is one file returned by a code search query.
type CodeSearchHit struct {
	Repository Repository `json:"repository" yaml:"repository"`
	Path       string     `json:"path" yaml:"path"`
}

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Filename  string `json:"filename" yaml:"filename"`
	Status    string `json:"status" yaml:"status"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
	Patch     string `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// RepoMatches holds the confirmed occurrences in one repository.
type RepoMatches struct {
	Repository   string      `json:"repository" yaml:"repository"`
	Branch       string      `json:"branch" yaml:"branch"`
	MatchType    string      `json:"match_type" yaml:"match_type"`
	FilesScanned int         `json:"files_scanned" yaml:"files_scanned"`
	Matches      []Candidate `json:"matches" yaml:"matches"`

	// FailedFiles lists the sampled files that could not be fetched.
	FailedFiles []FileError `json:"failed_files,omitempty" yaml:"failed_files,omitempty"`
}

// FileError records a file that could not be processed.
type FileError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// RepoError records a repository that could not contribute to a search.
type RepoError struct {
	Repository string `json:"repository" yaml:"repository"`
	Message    string `json:"message" yaml:"message"`
}

// Guidance is returned when no exact match was found. It suggests how a
// caller can continue the search manually.
type Guidance struct {
	Message          string       `json:"message" yaml:"message"`
	Tokens           []string     `json:"tokens" yaml:"tokens"`
	SuggestedQueries []string     `json:"suggested_queries" yaml:"suggested_queries"`
	TokenSearchRepos []Repository `json:"token_search_repos" yaml:"token_search_repos"`
	FullScanRepos    []Repository `json:"full_scan_repos" yaml:"full_scan_repos"`
	RecentRepos      []Repository `json:"recent_repos" yaml:"recent_repos"`
}

// SearchResult is the outcome of an organization search.
type SearchResult struct {
	Phase        string             `json:"search_phase" yaml:"search_phase"`
	Org          string             `json:"org" yaml:"org"`
	EventName    string             `json:"event_name" yaml:"event_name"`
	Repositories []RepoMatches      `json:"repositories" yaml:"repositories"`
	Errors       []RepoError        `json:"errors,omitempty" yaml:"errors,omitempty"`
	TotalMatches int                `json:"total_matches" yaml:"total_matches"`
	Analysis     *CrossRepoAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Guidance     *Guidance          `json:"guidance,omitempty" yaml:"guidance,omitempty"`
}

// SignatureGroup aggregates the matches sharing one property-key set.
type SignatureGroup struct {
	Keys         []string       `json:"keys" yaml:"keys"`
	Count        int            `json:"count" yaml:"count"`
	Repositories []string       `json:"repositories" yaml:"repositories"`
	Example      map[string]any `json:"example" yaml:"example"`
}

// Inconsistency is a set of raw property keys that normalize to the same
// form.
type Inconsistency struct {
	Normalized string   `json:"normalized" yaml:"normalized"`
	Variants   []string `json:"variants" yaml:"variants"`
}

// RepoUsage counts the occurrences in one repository.
type RepoUsage struct {
	Repository  string `json:"repository" yaml:"repository"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`
}

// CrossRepoAnalysis reconciles the usages of one event across repositories.
type CrossRepoAnalysis struct {
	EventName        string           `json:"event_name" yaml:"event_name"`
	TotalOccurrences int              `json:"total_occurrences" yaml:"total_occurrences"`
	Signatures       []SignatureGroup `json:"signatures,omitempty" yaml:"signatures,omitempty"`
	Inconsistencies  []Inconsistency  `json:"inconsistencies,omitempty" yaml:"inconsistencies,omitempty"`
	RepositoryUsage  []RepoUsage      `json:"repository_usage,omitempty" yaml:"repository_usage,omitempty"`
	Recommendations  []string         `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Message          string           `json:"message,omitempty" yaml:"message,omitempty"`
}
