// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docs renders tracking documentation as Markdown.
package docs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/analytics-scout/internal/analyze"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// DefaultTitle heads documents generated without a title.
const DefaultTitle = "Analytics Events"

type eventDoc struct {
	name      string
	props     map[string]any
	keys      []string
	locations []types.Location
}

// Markdown renders one section per distinct event name, in first-seen
// order, followed by the quality report for all events.
func Markdown(title string, events []types.Candidate) string {
	if title == "" {
		title = DefaultTitle
	}
	docs := collect(events)
	report := analyze.Analyze(events)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d events documented. Quality score: **%d/100**.\n\n", len(docs), report.Score)

	if len(docs) > 0 {
		b.WriteString("## Contents\n\n")
		for _, d := range docs {
			fmt.Fprintf(&b, "- [%s](#%s)\n", d.name, anchor(d.name))
		}
		b.WriteString("\n## Events\n\n")
	}
	for _, d := range docs {
		writeEvent(&b, d)
	}

	b.WriteString("## Quality\n\n")
	writeList(&b, "Issues", report.Issues)
	writeList(&b, "Suggestions", report.Suggestions)
	if len(report.Issues) == 0 && len(report.Suggestions) == 0 {
		b.WriteString("No issues found.\n")
	}
	return b.String()
}

func collect(events []types.Candidate) []*eventDoc {
	var order []*eventDoc
	byName := map[string]*eventDoc{}
	for _, e := range events {
		d, ok := byName[e.Name]
		if !ok {
			d = &eventDoc{name: e.Name, props: map[string]any{}}
			byName[e.Name] = d
			order = append(order, d)
		}
		for k, v := range e.UserProperties() {
			if _, seen := d.props[k]; !seen {
				d.props[k] = v
			}
		}
		if e.Location.File != "" {
			d.locations = append(d.locations, e.Location)
		}
	}
	for _, d := range order {
		for k := range d.props {
			d.keys = append(d.keys, k)
		}
		sort.Strings(d.keys)
	}
	return order
}

func writeEvent(b *strings.Builder, d *eventDoc) {
	fmt.Fprintf(b, "### %s\n\n", d.name)
	if len(d.keys) == 0 {
		b.WriteString("No properties.\n\n")
	} else {
		b.WriteString("| Property | Type | Example |\n|---|---|---|\n")
		for _, k := range d.keys {
			v := d.props[k]
			fmt.Fprintf(b, "| `%s` | %s | %s |\n", k, TypeName(v), example(v))
		}
		b.WriteString("\n")
	}
	if len(d.locations) > 0 {
		b.WriteString("Found in:\n\n")
		for _, l := range d.locations {
			fmt.Fprintf(b, "- `%s:%d`\n", l.File, l.Line)
		}
		b.WriteString("\n")
	}
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// TypeName names the JSON type of a property value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}

func example(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := strings.ReplaceAll(string(raw), "|", `\|`)
	return "`" + s + "`"
}

// anchor approximates the heading anchor Markdown renderers generate.
func anchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('-')
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
