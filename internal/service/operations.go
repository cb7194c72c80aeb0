// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

// Operation names.
const (
	OpScanRepository     = "scan_repository"
	OpAnalyzeFile        = "analyze_file"
	OpAnalyzePullRequest = "analyze_pull_request"
	OpValidateEvents     = "validate_events"
	OpGenerateDocs       = "generate_documentation"
	OpSearchOrgEvent     = "search_org_event"
	OpExportTrackingPlan = "export_tracking_plan"
)

// Operation describes one named operation for the transports.
type Operation struct {
	Name        string
	Description string

	// InputSchema is the JSON Schema of the operation's arguments.
	InputSchema map[string]any
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func strList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func object(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": props, "additionalProperties": false}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var repoProps = map[string]any{
	"owner":            str("Repository owner (user or organization)"),
	"repo":             str("Repository name"),
	"ref":              str("Branch, tag or commit (default HEAD)"),
	"include_patterns": strList("Glob patterns of files to scan"),
	"exclude_patterns": strList("Path substrings to skip"),
}

var eventsProps = map[string]any{
	"events": map[string]any{
		"type": "array",
		"items": object(map[string]any{
			"name":       str("Event name"),
			"properties": map[string]any{"type": "object", "description": "Event properties"},
		}, "name"),
	},
	"title": str("Document title"),
}

// Operations lists the operations in a stable order.
func Operations() []Operation {
	planProps := map[string]any{"format": map[string]any{"type": "string", "enum": []string{FormatJSON, FormatYAML}}}
	for k, v := range repoProps {
		planProps[k] = v
	}
	return []Operation{
		{
			Name:        OpScanRepository,
			Description: "Scan a repository for analytics events and report their quality",
			InputSchema: object(repoProps, "owner", "repo"),
		},
		{
			Name:        OpAnalyzeFile,
			Description: "Extract analytics events from a single file",
			InputSchema: object(map[string]any{
				"owner": str("Repository owner"),
				"repo":  str("Repository name"),
				"path":  str("File path"),
				"ref":   str("Branch, tag or commit (default HEAD)"),
			}, "owner", "repo", "path"),
		},
		{
			Name:        OpAnalyzePullRequest,
			Description: "Extract the analytics events a pull request adds",
			InputSchema: object(map[string]any{
				"owner":       str("Repository owner"),
				"repo":        str("Repository name"),
				"pull_number": map[string]any{"type": "integer", "minimum": 1},
			}, "owner", "repo", "pull_number"),
		},
		{
			Name:        OpValidateEvents,
			Description: "Check event names and properties against naming conventions",
			InputSchema: object(eventsProps, "events"),
		},
		{
			Name:        OpGenerateDocs,
			Description: "Generate Markdown tracking documentation for a list of events",
			InputSchema: object(eventsProps, "events"),
		},
		{
			Name:        OpSearchOrgEvent,
			Description: "Find where an event is sent across an organization's repositories",
			InputSchema: object(map[string]any{
				"org":              str("Organization login"),
				"event_name":       str("Event name to find"),
				"ref":              str("Preferred branch"),
				"include_patterns": strList("Glob patterns of files to scan"),
				"exclude_patterns": strList("Path substrings to skip"),
				"max_repos":        map[string]any{"type": "integer", "minimum": 1, "maximum": maxReposLimit},
			}, "org", "event_name"),
		},
		{
			Name:        OpExportTrackingPlan,
			Description: "Export a tracking plan of every event in a repository",
			InputSchema: object(planProps, "owner", "repo"),
		},
	}
}
