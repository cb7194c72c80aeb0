// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for analytics-scout.
// Candidates, quality reports, search results and cross-repository
// analyses are built fresh for every request and never persisted.
package types

import (
	"sort"
	"strings"
)

// Classification is the heuristic category assigned to a candidate at
// extraction time.
type Classification string

const (
	ClassExactMatch Classification = "exact_match"
	ClassTrack      Classification = "track"
	ClassTrait      Classification = "trait"
	ClassProperty   Classification = "property"
	ClassConstant   Classification = "constant"
	ClassThirdParty Classification = "third_party"
	ClassUnknown    Classification = "unknown"
)

// Reserved property keys carrying provenance metadata. All reserved keys
// start with an underscore.
const (
	KeyClassification = "_classification"
	KeyContext        = "_context"
	KeyFileType       = "_file_type"
	KeyParseError     = "_parse_error"
)

// Location points at the source line a candidate was extracted from.
type Location struct {
	File string `json:"file" yaml:"file"`
	// Line is 1-based.
	Line int `json:"line" yaml:"line"`
}

// Candidate is one extracted occurrence of what looks like an analytics event.
type Candidate struct {
	// Name is never empty for an emitted candidate.
	Name string `json:"name" yaml:"name"`

	// Properties holds the parsed event properties plus reserved provenance
	// keys (see KeyClassification and friends).
	Properties map[string]any `json:"properties" yaml:"properties"`

	Location Location `json:"location" yaml:"location"`
}

// Classification returns the classification recorded at extraction time,
// or ClassUnknown when absent.
func (c Candidate) Classification() Classification {
	switch v := c.Properties[KeyClassification].(type) {
	case Classification:
		return v
	case string:
		return Classification(v)
	}
	return ClassUnknown
}

// Context returns the comma-separated context tags.
func (c Candidate) Context() string {
	s, _ := c.Properties[KeyContext].(string)
	return s
}

// FileType returns the coarse file-type tag.
func (c Candidate) FileType() string {
	s, _ := c.Properties[KeyFileType].(string)
	return s
}

// ParseError reports whether the candidate is a fallback emitted after a
// processing failure.
func (c Candidate) ParseError() bool {
	b, _ := c.Properties[KeyParseError].(bool)
	return b
}

// UserProperties returns the properties without reserved keys.
func (c Candidate) UserProperties() map[string]any {
	out := make(map[string]any, len(c.Properties))
	for k, v := range c.Properties {
		if IsReservedKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// PropertyKeys returns the sorted non-reserved property keys.
func (c Candidate) PropertyKeys() []string {
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		if IsReservedKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsReservedKey reports whether k is a provenance key.
func IsReservedKey(k string) bool {
	return strings.HasPrefix(k, "_")
}

// EventInput is an event supplied directly by a caller, for validation or
// documentation.
type EventInput struct {
	Name       string         `json:"name" yaml:"name"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Candidates converts caller-supplied events into candidates with no location.
func Candidates(events []EventInput) []Candidate {
	out := make([]Candidate, 0, len(events))
	for _, e := range events {
		props := make(map[string]any, len(e.Properties))
		for k, v := range e.Properties {
			props[k] = v
		}
		out = append(out, Candidate{Name: e.Name, Properties: props})
	}
	return out
}
