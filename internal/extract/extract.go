// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns raw source text into analytics event candidates.
// Each line is run through an optional priority pass over quoted literals
// and then through the ordered pattern cascade in patterns.go. Candidates
// are tagged with their classification, surrounding context and file type,
// and deduplicated per source line.
//
// Extraction is best-effort text matching. It never fails: property parse
// errors degrade to empty mappings and a failing match degrades to an
// "unknown" candidate flagged with a parse error.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/analytics-scout/pkg/types"
)

// Options configures an Engine.
type Options struct {
	// PriorityLiterals enables the exact-quote pass, which accepts quoted
	// literals that read like event names and lets them win deduplication
	// over cascade matches on the same line.
	PriorityLiterals bool

	// Patterns overrides DefaultPatterns.
	Patterns []Pattern
}

// Engine runs the extraction cascade. An Engine holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	priorityLiterals bool
	patterns         []Pattern
}

// New builds an Engine from opts.
func New(opts Options) *Engine {
	patterns := opts.Patterns
	if patterns == nil {
		patterns = DefaultPatterns
	}
	return &Engine{priorityLiterals: opts.PriorityLiterals, patterns: patterns}
}

var defaultEngine = New(Options{})

// Extract runs the pattern cascade over content with default options.
func Extract(content, filename string) []types.Candidate {
	return defaultEngine.Extract(content, filename)
}

// Extract returns the deduplicated candidates found in content, ordered by
// line and, within a line, by emission order.
func (e *Engine) Extract(content, filename string) []types.Candidate {
	lines := strings.Split(content, "\n")
	ftype := fileType(filename)

	var emitted []types.Candidate
	for idx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if e.priorityLiterals {
			emitted = append(emitted, e.exactQuotes(line, idx, filename, ftype)...)
		}
		for i := range e.patterns {
			emitted = append(emitted, e.applyPattern(&e.patterns[i], lines, idx, filename, ftype)...)
		}
	}
	return Dedupe(emitted)
}

// exactQuoteRe finds quoted literals of at least three characters.
var exactQuoteRe = regexp.MustCompile(`'([^'\n]{3,})'|"([^"\n]{3,})"|` + "`([^`\\n]{3,})`")

// eventVocabulary marks a literal as a likely event name.
var eventVocabulary = []string{
	"user", "event", "click", "view", "submit", "complete", "start", "end",
	"sent", "received", "invitation", "dialog", "modal", "analysis", "selection",
}

// looksLikeEventName reports whether a quoted literal reads like a
// human-readable event name.
func looksLikeEventName(s string) bool {
	if strings.ContainsAny(s, " :") {
		return true
	}
	lower := strings.ToLower(s)
	for _, w := range eventVocabulary {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func (e *Engine) exactQuotes(line string, idx int, filename, ftype string) []types.Candidate {
	var out []types.Candidate
	for _, m := range exactQuoteRe.FindAllStringSubmatch(line, -1) {
		lit := firstNonEmpty(m[1:]...)
		if lit == "" || !looksLikeEventName(lit) {
			continue
		}
		out = append(out, types.Candidate{
			Name: lit,
			Properties: map[string]any{
				types.KeyClassification: types.ClassExactMatch,
				types.KeyContext:        TagDirect,
				types.KeyFileType:       ftype,
			},
			Location: types.Location{File: filename, Line: idx + 1},
		})
	}
	return out
}

func (e *Engine) applyPattern(p *Pattern, lines []string, idx int, filename, ftype string) []types.Candidate {
	var out []types.Candidate
	for _, m := range p.Re.FindAllStringSubmatch(lines[idx], -1) {
		g := groups(p.Re, m)
		c, ok, err := e.processMatch(p, g, lines, idx, filename, ftype)
		if err != nil {
			if raw := strings.TrimSpace(unquote(rawName(p, g))); raw != "" {
				out = append(out, types.Candidate{
					Name: raw,
					Properties: map[string]any{
						types.KeyClassification: types.ClassUnknown,
						types.KeyParseError:     true,
						types.KeyFileType:       ftype,
					},
					Location: types.Location{File: filename, Line: idx + 1},
				})
			}
			continue
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// rawName returns the captured name before any processing.
func rawName(p *Pattern, g map[string]string) string {
	if p.ValueGroup != "" && g[p.ValueGroup] != "" {
		return g[p.ValueGroup]
	}
	return g[p.NameGroup]
}

// processMatch turns one regex match into a candidate. ok is false when the
// match is rejected or carries no name. A panic anywhere in processing is
// returned as an error so the caller can emit a fallback candidate.
func (e *Engine) processMatch(p *Pattern, g map[string]string, lines []string, idx int, filename, ftype string) (c types.Candidate, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processing %s match on line %d: %v", p.Name, idx+1, r)
		}
	}()

	if p.Reject != nil && p.Reject(g) {
		return types.Candidate{}, false, nil
	}

	fromValue := false
	name := unquote(g[p.NameGroup])
	if p.ValueGroup != "" && g[p.ValueGroup] != "" {
		name = unquote(g[p.ValueGroup])
		fromValue = true
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Candidate{}, false, nil
	}

	if p.Class == types.ClassConstant && !fromValue && strings.Contains(name, "_") {
		name = camelCase(name)
	}

	props := map[string]any{}
	if p.PropsGroup != "" && p.Class != types.ClassConstant {
		if frag := g[p.PropsGroup]; frag != "" {
			props = ParseProperties(frag)
		}
	}
	props[types.KeyClassification] = p.Class
	props[types.KeyContext] = contextTags(lines, idx, filename)
	props[types.KeyFileType] = ftype

	return types.Candidate{
		Name:       name,
		Properties: props,
		Location:   types.Location{File: filename, Line: idx + 1},
	}, true, nil
}

// camelCase converts snake_case or SCREAMING_CASE to camelCase.
func camelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return s
	}
	var b strings.Builder
	for i, part := range parts {
		lower := strings.ToLower(part)
		if i == 0 {
			b.WriteString(lower)
			continue
		}
		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// dedupeLine applies the per-location rule: an exact_match candidate wins
// the whole line, otherwise the first candidate per distinct name is kept.
// All candidates passed in share one (file, line).
func dedupeLine(cands []types.Candidate) []types.Candidate {
	if len(cands) <= 1 {
		return cands
	}
	for _, c := range cands {
		if c.Classification() == types.ClassExactMatch {
			return []types.Candidate{adoptProperties(c, cands)}
		}
	}
	seen := make(map[string]bool, len(cands))
	out := cands[:0:0]
	for _, c := range cands {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// adoptProperties copies onto a winning exact_match candidate the user
// properties of the first cascade candidate with the same name, so the
// call's property literal survives deduplication.
func adoptProperties(winner types.Candidate, line []types.Candidate) types.Candidate {
	for _, c := range line {
		if c.Name != winner.Name || c.Classification() == types.ClassExactMatch {
			continue
		}
		props := make(map[string]any, len(winner.Properties)+len(c.Properties))
		for k, v := range c.UserProperties() {
			props[k] = v
		}
		for k, v := range winner.Properties {
			props[k] = v
		}
		winner.Properties = props
		return winner
	}
	return winner
}

// Dedupe applies the per-location rule to candidates from any number of
// locations, preserving first-seen location order.
func Dedupe(cands []types.Candidate) []types.Candidate {
	type loc struct {
		file string
		line int
	}
	var order []loc
	grouped := make(map[loc][]types.Candidate)
	for _, c := range cands {
		k := loc{c.Location.File, c.Location.Line}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], c)
	}
	out := make([]types.Candidate, 0, len(cands))
	for _, k := range order {
		out = append(out, dedupeLine(grouped[k])...)
	}
	return out
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
