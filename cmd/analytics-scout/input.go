// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// parseRepo splits "owner/repo".
func parseRepo(arg string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository must be owner/repo, got %q", arg)
	}
	return owner, repo, nil
}

// parseEvents decodes an event list. YAML is a superset of JSON, so one
// decoder reads both file formats.
func parseEvents(data []byte) ([]types.EventInput, error) {
	var list []types.EventInput
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc struct {
		Events []types.EventInput `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing events file: %w", err)
	}
	return doc.Events, nil
}
