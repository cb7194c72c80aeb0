// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze scores the naming and property quality of event
// candidates and summarizes them by event name.
package analyze

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// Score deductions, applied per candidate and cumulative.
const (
	penaltyNotTitleCase   = 10
	penaltySeparators     = 5
	penaltyNoProperties   = 3
	penaltyNoUserID       = 5
	penaltyTooManyProps   = 10
	penaltySnakeCaseProps = 5

	maxProperties = 15
)

var (
	titleCaseRe = regexp.MustCompile(`^[A-Z][a-z0-9]*(?: [A-Z][a-z0-9]*)*$`)
	snakeCaseRe = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)+$`)
)

// userIDKeys identify the acting user or customer.
var userIDKeys = []string{"userId", "user_id", "id", "customerId", "customer_id"}

// timestampKeys record when the event happened.
var timestampKeys = []string{"timestamp", "time", "createdAt", "created_at"}

// Analyze returns the quality report for candidates. The score starts at
// 100 and never drops below 0.
func Analyze(cands []types.Candidate) types.QualityReport {
	report := types.QualityReport{
		Issues:      []string{},
		Suggestions: []string{},
		Score:       100,
	}

	for _, c := range cands {
		props := c.UserProperties()

		if !titleCaseRe.MatchString(c.Name) {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Event %q should use Title Case with spaces (e.g. \"User Signed Up\")", c.Name))
			report.Score -= penaltyNotTitleCase
		}
		if strings.ContainsAny(c.Name, "_-") {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Event %q contains underscores or hyphens", c.Name))
			report.Score -= penaltySeparators
		}

		if len(props) == 0 {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("Event %q has no properties; consider adding context", c.Name))
			report.Score -= penaltyNoProperties
		} else {
			if !hasAny(props, userIDKeys) {
				report.Suggestions = append(report.Suggestions,
					fmt.Sprintf("Event %q has no user identifier property", c.Name))
				report.Score -= penaltyNoUserID
			}
			if !hasAny(props, timestampKeys) {
				report.Suggestions = append(report.Suggestions,
					fmt.Sprintf("Event %q has no timestamp property", c.Name))
			}
		}

		if len(props) > maxProperties {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Event %q has %d properties (more than %d)", c.Name, len(props), maxProperties))
			report.Score -= penaltyTooManyProps
		}

		if snake := snakeCaseKeys(props); len(snake) > 0 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Event %q uses snake_case property keys: %s", c.Name, strings.Join(snake, ", ")))
			report.Score -= penaltySnakeCaseProps
		}
	}

	if report.Score < 0 {
		report.Score = 0
	}
	return report
}

func hasAny(props map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := props[k]; ok {
			return true
		}
	}
	return false
}

func snakeCaseKeys(props map[string]any) []string {
	var out []string
	for k := range props {
		if snakeCaseRe.MatchString(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Summarize groups candidates by name. Summaries are ordered by occurrence
// count, then name.
func Summarize(cands []types.Candidate) []types.EventSummary {
	type acc struct {
		summary types.EventSummary
		files   map[string]bool
		sigs    map[string]bool
	}
	byName := make(map[string]*acc)
	var order []string

	for _, c := range cands {
		a, ok := byName[c.Name]
		if !ok {
			a = &acc{
				summary: types.EventSummary{Name: c.Name, Files: []string{}, Signatures: [][]string{}},
				files:   map[string]bool{},
				sigs:    map[string]bool{},
			}
			byName[c.Name] = a
			order = append(order, c.Name)
		}
		a.summary.Occurrences++
		if f := c.Location.File; f != "" && !a.files[f] {
			a.files[f] = true
			a.summary.Files = append(a.summary.Files, f)
		}
		keys := c.PropertyKeys()
		if sig := strings.Join(keys, ","); !a.sigs[sig] {
			a.sigs[sig] = true
			a.summary.Signatures = append(a.summary.Signatures, keys)
		}
	}

	out := make([]types.EventSummary, 0, len(order))
	for _, name := range order {
		s := byName[name].summary
		sort.Strings(s.Files)
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Name < out[j].Name
	})
	return out
}
