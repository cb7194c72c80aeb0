// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

import (
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/analytics-scout/internal/scan"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// TrackingPlan builds the per-event inventory of a scan. Each event takes
// its most frequent classification and the union of its property keys.
func TrackingPlan(res scan.Result) types.TrackingPlan {
	type acc struct {
		classes map[string]int
		keys    map[string]bool
	}
	byName := map[string]*acc{}
	for _, c := range res.Events {
		a, ok := byName[c.Name]
		if !ok {
			a = &acc{classes: map[string]int{}, keys: map[string]bool{}}
			byName[c.Name] = a
		}
		a.classes[string(c.Classification())]++
		for _, k := range c.PropertyKeys() {
			a.keys[k] = true
		}
	}

	plan := types.TrackingPlan{
		Repository: res.Repository,
		Ref:        res.Ref,
		Events:     make([]types.TrackingPlanEvent, 0, len(res.Summary)),
		Quality:    res.Quality,
	}
	for _, s := range res.Summary {
		a := byName[s.Name]
		props := make([]string, 0, len(a.keys))
		for k := range a.keys {
			props = append(props, k)
		}
		sort.Strings(props)
		plan.Events = append(plan.Events, types.TrackingPlanEvent{
			Name:           s.Name,
			Classification: dominant(a.classes),
			Occurrences:    s.Occurrences,
			Properties:     props,
			Files:          s.Files,
		})
	}
	return plan
}

// dominant returns the most frequent key, breaking ties by name.
func dominant(counts map[string]int) string {
	best, bestN := "", -1
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// MarshalPlanYAML renders a tracking plan as YAML.
func MarshalPlanYAML(plan types.TrackingPlan) (string, error) {
	out, err := yaml.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encoding tracking plan: %w", err)
	}
	return string(out), nil
}
