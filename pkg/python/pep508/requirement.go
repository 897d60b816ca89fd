// Package pep508 implements PEP 508 -- Dependency specification for Python
// Software Packages.
//
// https://www.python.org/dev/peps/pep-0508/
package pep508

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// A Requirement is a single dependency specification, as found in a
// Requires-Dist field or on a line of a requirements.txt file.
type Requirement struct {
	Name   string
	Extras []string
	// Specifier constrains the version; it is empty for URL requirements.
	Specifier pep440.Specifier
	// URL is set for "name @ url" direct references.
	URL    string
	Marker *Marker
}

//nolint:gochecknoglobals // Would be 'const'.
var reName = regexp.MustCompile(`^[A-Za-z0-9](?:[-_.A-Za-z0-9]*[A-Za-z0-9])?$`)

// ParseRequirement parses a dependency specification, such as
//
//	importlib-metadata>=3.6; python_version < "3.10"
func ParseRequirement(str string) (*Requirement, error) {
	ret, err := parseRequirement(str)
	if err != nil {
		return nil, fmt.Errorf("pep508.ParseRequirement: invalid requirement: %q: %w", str, err)
	}
	return ret, nil
}

func parseRequirement(str string) (*Requirement, error) {
	p := &parser{input: str}
	ret := &Requirement{}

	// 1. The project name.
	p.skipSpace()
	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	ret.Name = p.input[start:p.pos]
	if !reName.MatchString(ret.Name) {
		return nil, fmt.Errorf("invalid project name: %q", ret.Name)
	}

	// 2. Optionally, extras.
	p.skipSpace()
	if p.take("[") {
		for {
			p.skipSpace()
			extraStart := p.pos
			for !p.eof() && isIdentChar(p.peek()) {
				p.pos++
			}
			extra := p.input[extraStart:p.pos]
			if !reName.MatchString(extra) {
				return nil, fmt.Errorf("invalid extra name: %q", extra)
			}
			ret.Extras = append(ret.Extras, extra)
			p.skipSpace()
			if !p.take(",") {
				break
			}
		}
		if !p.take("]") {
			return nil, fmt.Errorf("expected ']' at position %d", p.pos)
		}
	}

	// 3. Either a URL, or (optionally) a version specifier.
	p.skipSpace()
	switch {
	case p.take("@"):
		p.skipSpace()
		urlStart := p.pos
		for !p.eof() && p.peek() != ' ' && p.peek() != '\t' {
			p.pos++
		}
		ret.URL = p.input[urlStart:p.pos]
		if ret.URL == "" {
			return nil, fmt.Errorf("expected a URL at position %d", urlStart)
		}
	case p.take("("):
		specStart := p.pos
		end := strings.IndexByte(p.input[p.pos:], ')')
		if end < 0 {
			return nil, fmt.Errorf("expected ')' at position %d", len(p.input))
		}
		p.pos += end + 1
		spec, err := pep440.ParseSpecifier(p.input[specStart : specStart+end])
		if err != nil {
			return nil, err
		}
		ret.Specifier = spec
	default:
		end := strings.IndexByte(p.input[p.pos:], ';')
		if end < 0 {
			end = len(p.input) - p.pos
		}
		raw := p.input[p.pos : p.pos+end]
		p.pos += end
		if strings.TrimSpace(raw) != "" {
			spec, err := pep440.ParseSpecifier(raw)
			if err != nil {
				return nil, err
			}
			ret.Specifier = spec
		}
	}

	// 4. Optionally, an environment marker.
	p.skipSpace()
	if p.take(";") {
		expr, err := p.parseMarkerOr()
		if err != nil {
			return nil, err
		}
		ret.Marker = &Marker{expr: expr}
	}

	p.skipSpace()
	if !p.eof() {
		return nil, fmt.Errorf("unexpected text at position %d: %q", p.pos, p.input[p.pos:])
	}
	return ret, nil
}

// String renders the requirement canonically: extras sorted and
// deduplicated, no space before the version specifier, "; " before any
// marker.
func (r *Requirement) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if len(r.Extras) > 0 {
		extras := append([]string(nil), r.Extras...)
		sort.Strings(extras)
		sb.WriteByte('[')
		for i, extra := range extras {
			if i > 0 && extra == extras[i-1] {
				continue
			}
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(extra)
		}
		sb.WriteByte(']')
	}
	if r.URL != "" {
		sb.WriteString("@ ")
		sb.WriteString(r.URL)
		if r.Marker != nil {
			sb.WriteString(" ; ")
			sb.WriteString(r.Marker.String())
		}
	} else {
		sb.WriteString(r.Specifier.String())
		if r.Marker != nil {
			sb.WriteString("; ")
			sb.WriteString(r.Marker.String())
		}
	}
	return sb.String()
}

// A parser is a cursor over an input string; the methods that consume input
// leave the cursor past what they consumed.
type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

// peek returns the next byte, or 0 at end of input.
func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// take consumes tok if it comes next.
func (p *parser) take(tok string) bool {
	if !strings.HasPrefix(p.input[p.pos:], tok) {
		return false
	}
	p.pos += len(tok)
	return true
}

// takeKeyword consumes tok only if it comes next as a whole word.
func (p *parser) takeKeyword(tok string) bool {
	rest := p.input[p.pos:]
	if !strings.HasPrefix(rest, tok) {
		return false
	}
	if len(rest) > len(tok) && isIdentChar(rest[len(tok)]) {
		return false
	}
	p.pos += len(tok)
	return true
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || c == '.' ||
		('0' <= c && c <= '9') ||
		('A' <= c && c <= 'Z') ||
		('a' <= c && c <= 'z')
}
