// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// QualityReport is the naming and property quality assessment of a set of
// candidates. Score is in [0, 100].
type QualityReport struct {
	Issues      []string `json:"issues" yaml:"issues"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
	Score       int      `json:"score" yaml:"score"`
}

// EventSummary groups the candidates sharing one event name.
type EventSummary struct {
	Name        string `json:"name" yaml:"name"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`

	// Files lists the distinct files the event appears in, sorted.
	Files []string `json:"files" yaml:"files"`

	// Signatures lists the distinct sorted property-key sets seen.
	Signatures [][]string `json:"signatures" yaml:"signatures"`
}

// TrackingPlanEvent is one entry of an exported tracking plan.
type TrackingPlanEvent struct {
	Name           string   `json:"name" yaml:"name"`
	Classification string   `json:"classification" yaml:"classification"`
	Occurrences    int      `json:"occurrences" yaml:"occurrences"`
	Properties     []string `json:"properties" yaml:"properties"`
	Files          []string `json:"files" yaml:"files"`
}

// TrackingPlan is the per-repository inventory of events.
type TrackingPlan struct {
	Repository string              `json:"repository" yaml:"repository"`
	Ref        string              `json:"ref" yaml:"ref"`
	Events     []TrackingPlanEvent `json:"events" yaml:"events"`
	Quality    QualityReport       `json:"quality" yaml:"quality"`
}
