// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"regexp"
	"strings"
)

// Matcher decides which repository paths are scanned. A path is kept when
// it matches at least one include glob and contains none of the exclude
// substrings. An empty include list keeps every path.
type Matcher struct {
	include []*regexp.Regexp
	exclude []string
}

// NewMatcher compiles include globs and exclude substrings. Blank entries
// are ignored.
func NewMatcher(include, exclude []string) *Matcher {
	m := &Matcher{}
	for _, g := range include {
		if g = strings.TrimSpace(g); g != "" {
			m.include = append(m.include, GlobRegexp(g))
		}
	}
	for _, e := range exclude {
		if e = strings.TrimSpace(e); e != "" {
			m.exclude = append(m.exclude, e)
		}
	}
	return m
}

// Match reports whether path passes the filters.
func (m *Matcher) Match(path string) bool {
	for _, e := range m.exclude {
		if strings.Contains(path, e) {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, re := range m.include {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Filter returns the paths that pass, in input order.
func (m *Matcher) Filter(paths []string) []string {
	var out []string
	for _, p := range paths {
		if m.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// GlobRegexp converts a glob to an anchored regular expression. "**/"
// matches any (possibly empty) directory prefix and "*" matches any run of
// characters; everything else is literal.
func GlobRegexp(glob string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); {
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case glob[i] == '*':
			b.WriteString(".*")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(glob[i : i+1]))
			i++
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
