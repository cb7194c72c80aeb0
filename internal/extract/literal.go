// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxLiteralDepth bounds nesting so pathological input cannot recurse deeply.
const maxLiteralDepth = 32

var errNotLiteral = errors.New("not a literal")

// ParseProperties parses the object literal at the start of fragment into a
// property mapping. The grammar is restricted to strings, numbers, booleans,
// null/undefined, arrays and objects; comments and trailing commas are
// allowed and anything after the closing brace is ignored. Any other
// construct yields an empty mapping.
func ParseProperties(fragment string) map[string]any {
	p := &literalParser{src: fragment}
	p.skipSpace()
	if p.peek() != '{' {
		return map[string]any{}
	}
	v, err := p.parseObject(0)
	if err != nil {
		return map[string]any{}
	}
	return v
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// skipSpace skips whitespace and // or /* */ comments.
func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *literalParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("%w: expected %q at %d", errNotLiteral, c, p.pos)
	}
	p.pos++
	return nil
}

func (p *literalParser) parseValue(depth int) (any, error) {
	if depth > maxLiteralDepth {
		return nil, fmt.Errorf("%w: nesting too deep", errNotLiteral)
	}
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '{':
		return p.parseObject(depth + 1)
	case c == '[':
		return p.parseArray(depth + 1)
	case c == '\'' || c == '"' || c == '`':
		return p.parseString()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case isIdentStart(c):
		word := p.parseIdent()
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "undefined":
			return nil, nil
		}
		return nil, fmt.Errorf("%w: identifier %q", errNotLiteral, word)
	}
	return nil, fmt.Errorf("%w: unexpected %q at %d", errNotLiteral, c, p.pos)
}

func (p *literalParser) parseObject(depth int) (map[string]any, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	out := map[string]any{}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		val, err := p.parseValue(depth)
		if err != nil {
			return nil, err
		}
		out[key] = val

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, fmt.Errorf("%w: expected , or } at %d", errNotLiteral, p.pos)
		}
	}
}

func (p *literalParser) parseArray(depth int) ([]any, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	out := []any{}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return out, nil
		}
		val, err := p.parseValue(depth)
		if err != nil {
			return nil, err
		}
		out = append(out, val)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
		default:
			return nil, fmt.Errorf("%w: expected , or ] at %d", errNotLiteral, p.pos)
		}
	}
}

func (p *literalParser) parseKey() (string, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '\'' || c == '"' || c == '`':
		return p.parseString()
	case isIdentStart(c):
		return p.parseIdent(), nil
	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		return p.src[start:p.pos], nil
	}
	return "", fmt.Errorf("%w: bad key at %d", errNotLiteral, p.pos)
}

func (p *literalParser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *literalParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n' && quote != '`':
			return "", fmt.Errorf("%w: unterminated string", errNotLiteral)
		case c == '$' && quote == '`' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '{':
			return "", fmt.Errorf("%w: template substitution", errNotLiteral)
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", fmt.Errorf("%w: dangling escape", errNotLiteral)
			}
			esc := p.src[p.pos+1]
			p.pos += 2
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if p.pos+4 > len(p.src) {
					return "", fmt.Errorf("%w: short unicode escape", errNotLiteral)
				}
				n, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", fmt.Errorf("%w: unicode escape: %v", errNotLiteral, err)
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				b.WriteByte(esc)
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return "", fmt.Errorf("%w: unterminated string", errNotLiteral)
}

func (p *literalParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	raw := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", errNotLiteral, raw)
	}
	return n, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
