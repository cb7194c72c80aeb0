// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Context tags attached to candidates.
const (
	TagDirect        = "direct"
	TagInFunction    = "in_function"
	TagInClass       = "in_class"
	TagInSwitchCase  = "in_switch_case"
	TagConditional   = "conditional"
	TagAnalyticsFile = "analytics_file"
)

// contextWindow is how many preceding lines the declaration scan inspects.
const contextWindow = 50

var (
	functionDeclRe = regexp.MustCompile(`\bfunction\b|=>`)
	methodDeclRe   = regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|async|get|set)\s+)*([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*(?::\s*[^{=]+)?\{\s*$`)
	classDeclRe    = regexp.MustCompile(`\bclass\s+[A-Za-z_$]`)
	caseLabelRe    = regexp.MustCompile(`\bcase\s+[^:]+:|\bdefault\s*:`)
	ifGuardRe      = regexp.MustCompile(`\bif\s*\(`)
)

// controlKeywords look like method declarations to methodDeclRe.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true, "with": true, "return": true,
}

// contextTags computes the comma-separated context for the candidate on
// lines[idx].
func contextTags(lines []string, idx int, filename string) string {
	var tags []string

	if enclosing := enclosingDeclaration(lines, idx); enclosing != "" {
		tags = append(tags, enclosing)
	}

	prev := ""
	if idx > 0 {
		prev = lines[idx-1]
	}
	line := lines[idx]
	if caseLabelRe.MatchString(line) || caseLabelRe.MatchString(prev) {
		tags = append(tags, TagInSwitchCase)
	}
	if ifGuardRe.MatchString(line) || ifGuardRe.MatchString(prev) {
		tags = append(tags, TagConditional)
	}
	if strings.Contains(strings.ToLower(filename), "analytics") {
		tags = append(tags, TagAnalyticsFile)
	}

	if len(tags) == 0 {
		return TagDirect
	}
	return strings.Join(tags, ",")
}

// enclosingDeclaration scans backward from idx and reports the nearest
// function or class declaration.
func enclosingDeclaration(lines []string, idx int) string {
	stop := idx - contextWindow
	if stop < 0 {
		stop = 0
	}
	for i := idx - 1; i >= stop; i-- {
		l := lines[i]
		if classDeclRe.MatchString(l) {
			return TagInClass
		}
		if functionDeclRe.MatchString(l) {
			return TagInFunction
		}
		if m := methodDeclRe.FindStringSubmatch(l); m != nil && !controlKeywords[m[1]] {
			return TagInFunction
		}
	}
	return ""
}

// fileTypeMarkers map filename substrings to file-type tags, checked in order.
var fileTypeMarkers = []struct {
	marker string
	tag    string
}{
	{"analytics", "analytics"},
	{"tracking", "tracking"},
	{"events", "events"},
	{"service", "service"},
	{"component", "component"},
	{"page", "page"},
	{"test", "test"},
	{"spec", "test"},
}

// fileType derives a coarse tag from the filename.
func fileType(filename string) string {
	lower := strings.ToLower(filename)
	for _, m := range fileTypeMarkers {
		if strings.Contains(lower, m.marker) {
			return m.tag
		}
	}
	if ext := strings.TrimPrefix(filepath.Ext(lower), "."); ext != "" {
		return ext
	}
	return "unknown"
}
