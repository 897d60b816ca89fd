package requirements

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/google/renameio/v2"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/python/pep508"
)

// An Option adjusts how requirements get parsed.
type Option func(*parseConfig)

type parseConfig struct {
	normalize   NormalizeFunc
	keepInvalid bool
}

// WithNormalizeFunc overrides pep503.Normalize as the name normalizer.
func WithNormalizeFunc(fn NormalizeFunc) Option {
	return func(cfg *parseConfig) {
		cfg.normalize = fn
	}
}

// KeepInvalid collects unparseable lines in ParseResult.Invalid instead of
// logging and dropping them.
func KeepInvalid() Option {
	return func(cfg *parseConfig) {
		cfg.keepInvalid = true
	}
}

// A ParseResult is the contents of a requirements file, split apart.
type ParseResult struct {
	Requirements []Requirement
	// Comments holds the lines whose first non-space byte is "#", verbatim
	// and in order.
	Comments []string
	// Invalid holds the lines that did not parse; only with KeepInvalid.
	Invalid []string
}

// Parse parses the lines of a requirements file.  Blank lines are skipped,
// duplicate requirements are dropped, and requirement names are normalized.
func Parse(ctx context.Context, lines []string, opts ...Option) *ParseResult {
	cfg := parseConfig{normalize: pep503.Normalize}
	for _, opt := range opts {
		opt(&cfg)
	}

	ret := &ParseResult{}
	seen := make(map[string]struct{})
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "#"):
			ret.Comments = append(ret.Comments, line)
			continue
		}
		parsed, err := pep508.ParseRequirement(trimmed)
		if err != nil {
			if cfg.keepInvalid {
				ret.Invalid = append(ret.Invalid, line)
			} else {
				dlog.Warnf(ctx, "ignored invalid requirement %q", line)
			}
			continue
		}
		req := Requirement(*parsed)
		req.Name = denormalizeRuamel(cfg.normalize(req.Name))
		key := req.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ret.Requirements = append(ret.Requirements, req)
	}
	return ret
}

// Read reads and parses a requirements file.
func Read(ctx context.Context, file string, opts ...Option) (*ParseResult, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(bs), "\r\n", "\n"), "\n")
	return Parse(ctx, lines, opts...), nil
}

// Combine merges requirements that name the same project (per
// pep503.Normalize) and carry the same marker: their specifiers are merged
// with pep440.MergeSpecifiers and their extras are unioned.  First-seen
// order and spelling win.
func Combine(reqs ...Requirement) []Requirement {
	type mergeKey struct {
		name   string
		marker string
	}
	var order []mergeKey
	merged := make(map[mergeKey]*Requirement)
	for _, req := range reqs {
		key := mergeKey{
			name:   pep503.Normalize(req.Name),
			marker: markerString(req.Marker),
		}
		existing, ok := merged[key]
		if !ok {
			req := req
			req.Extras = append([]string(nil), req.Extras...)
			req.Specifier = append(pep440.Specifier(nil), req.Specifier...)
			merged[key] = &req
			order = append(order, key)
			continue
		}
		existing.Specifier = append(existing.Specifier, req.Specifier...)
		for _, extra := range req.Extras {
			found := false
			for _, have := range existing.Extras {
				if have == extra {
					found = true
					break
				}
			}
			if !found {
				existing.Extras = append(existing.Extras, extra)
			}
		}
		if existing.URL == "" {
			existing.URL = req.URL
		}
	}

	ret := make([]Requirement, 0, len(order))
	for _, key := range order {
		req := merged[key]
		req.Specifier = pep440.MergeSpecifiers(req.Specifier)
		ret = append(ret, *req)
	}
	return ret
}

// Format renders a requirements file: comments first, then the requirements
// sorted with Cmp, one per line.
func Format(reqs []Requirement, comments []string) []byte {
	sorted := append([]Requirement(nil), reqs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cmp(sorted[j]) < 0
	})

	var buf strings.Builder
	for _, comment := range comments {
		buf.WriteString(comment)
		buf.WriteByte('\n')
	}
	for _, req := range sorted {
		buf.WriteString(req.String())
		buf.WriteByte('\n')
	}
	return []byte(buf.String())
}

// Write writes a requirements file as Format renders it.  The file is
// replaced atomically.
func Write(file string, reqs []Requirement, comments []string) error {
	return renameio.WriteFile(file, Format(reqs, comments), 0o644)
}
