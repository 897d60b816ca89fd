// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"
	"sort"
	"strings"
)

// A CmpOp is one of the comparison operators that may appear in a specifier
// clause.
type CmpOp int

const (
	// CmpOpCompatible is "~= V"; a compatible release clause, equivalent to
	// ">= V" together with a prefix match on V minus its final release
	// segment.
	CmpOpCompatible CmpOp = iota
	// CmpOpEQ is "== V"; version matching.
	CmpOpEQ
	// CmpOpPrefixEQ is "== V.*"; prefix matching.
	CmpOpPrefixEQ
	// CmpOpNE is "!= V"; version exclusion.
	CmpOpNE
	// CmpOpPrefixNE is "!= V.*"; prefix exclusion.
	CmpOpPrefixNE
	// CmpOpLE is "<= V"; inclusive ordered comparison.
	CmpOpLE
	// CmpOpGE is ">= V"; inclusive ordered comparison.
	CmpOpGE
	// CmpOpLT is "< V"; exclusive ordered comparison.
	CmpOpLT
	// CmpOpGT is "> V"; exclusive ordered comparison.
	CmpOpGT
	// CmpOpArbitraryEQ is "=== S"; simple string equality.
	CmpOpArbitraryEQ
)

// String returns the operator's spelling, without any ".*" suffix that the
// prefix operators carry on their operand.
func (op CmpOp) String() string {
	switch op {
	case CmpOpCompatible:
		return "~="
	case CmpOpEQ, CmpOpPrefixEQ:
		return "=="
	case CmpOpNE, CmpOpPrefixNE:
		return "!="
	case CmpOpLE:
		return "<="
	case CmpOpGE:
		return ">="
	case CmpOpLT:
		return "<"
	case CmpOpGT:
		return ">"
	case CmpOpArbitraryEQ:
		return "==="
	default:
		panic(fmt.Errorf("invalid CmpOp: %d", int(op)))
	}
}

// A SpecifierClause is a single comparison within a Specifier.
type SpecifierClause struct {
	Op CmpOp
	// Version is the clause's operand, except for CmpOpArbitraryEQ clauses.
	Version Version
	// Exact is the operand of a CmpOpArbitraryEQ clause, which need not be a
	// valid version at all.
	Exact string
}

// String returns the canonical spelling of the clause.
func (clause SpecifierClause) String() string {
	switch clause.Op {
	case CmpOpArbitraryEQ:
		return "===" + clause.Exact
	case CmpOpPrefixEQ, CmpOpPrefixNE:
		return clause.Op.String() + clause.Version.String() + ".*"
	default:
		return clause.Op.String() + clause.Version.String()
	}
}

// A Specifier is a comma-separated list of clauses that a version must
// satisfy all of.  An empty Specifier matches every version.
type Specifier []SpecifierClause

// String renders the specifier with its clauses sorted, the same way that
// the Python packaging tools render specifier sets, so that specifier
// strings round-trip stably through requirements files.
func (spec Specifier) String() string {
	strs := make([]string, 0, len(spec))
	for _, clause := range spec {
		strs = append(strs, clause.String())
	}
	sort.Strings(strs)
	return strings.Join(strs, ",")
}

// ParseSpecifier parses a comma-separated list of specifier clauses, such as
// the version constraints of a PEP 508 requirement.  Duplicate clauses are
// dropped.
func ParseSpecifier(str string) (Specifier, error) {
	var ret Specifier
	for _, clauseStr := range strings.Split(str, ",") {
		if strings.TrimSpace(clauseStr) == "" {
			continue
		}
		clause, err := parseSpecifierClause(clauseStr)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseSpecifier: %w", err)
		}
		dup := false
		for _, existing := range ret {
			if existing.String() == clause.String() {
				dup = true
				break
			}
		}
		if !dup {
			ret = append(ret, clause)
		}
	}
	return ret, nil
}

//nolint:gochecknoglobals // Would be 'const'.
var cmpOpSpellings = []string{"===", "==", "!=", "~=", "<=", ">=", "<", ">"}

func parseSpecifierClause(str string) (SpecifierClause, error) {
	var ret SpecifierClause

	full := strings.TrimSpace(str)
	var opStr string
	for _, spelling := range cmpOpSpellings {
		if strings.HasPrefix(full, spelling) {
			opStr = spelling
			break
		}
	}
	if opStr == "" {
		return ret, fmt.Errorf("missing comparison operator: %q", str)
	}
	verStr := strings.TrimSpace(strings.TrimPrefix(full, opStr))

	minSegments := 1
	devOK := true
	localOK := false
	switch opStr {
	case "===":
		if verStr == "" {
			return ret, fmt.Errorf("missing version: %q", str)
		}
		ret.Op = CmpOpArbitraryEQ
		ret.Exact = verStr
		return ret, nil
	case "~=":
		// There must be a release segment left after dropping the last one.
		ret.Op = CmpOpCompatible
		minSegments = 2
	case "==", "!=":
		if opStr == "==" {
			ret.Op = CmpOpEQ
		} else {
			ret.Op = CmpOpNE
		}
		localOK = true
		if strings.HasSuffix(verStr, ".*") {
			verStr = strings.TrimSuffix(verStr, ".*")
			if opStr == "==" {
				ret.Op = CmpOpPrefixEQ
			} else {
				ret.Op = CmpOpPrefixNE
			}
			devOK = false
			localOK = false
		}
	case "<=":
		ret.Op = CmpOpLE
	case ">=":
		ret.Op = CmpOpGE
	case "<":
		ret.Op = CmpOpLT
	case ">":
		ret.Op = CmpOpGT
	}

	ver, err := parseVersion(verStr)
	if err != nil {
		return ret, err
	}
	if len(ver.Release) < minSegments {
		return ret, fmt.Errorf("%v specifier clauses need at least %d release segments: %q", ret.Op, minSegments, str)
	}
	if ver.Dev != nil && !devOK {
		return ret, fmt.Errorf("dev releases are not permitted in %v prefix-match clauses: %q", ret.Op, str)
	}
	if len(ver.Local) > 0 && !localOK {
		return ret, fmt.Errorf("local versions are not permitted in %v specifier clauses: %q", ret.Op, str)
	}
	ret.Version = *ver
	return ret, nil
}

// Match reports whether the given version satisfies every clause of the
// specifier.
func (spec Specifier) Match(ver Version) bool {
	for _, clause := range spec {
		if !clause.Match(ver) {
			return false
		}
	}
	return true
}

// Match reports whether the given version satisfies the clause, following
// the PEP's rules for which segments each operator considers.
func (clause SpecifierClause) Match(ver Version) bool {
	spec := clause.Version
	switch clause.Op {
	case CmpOpCompatible:
		return matchCompatible(spec, ver)
	case CmpOpEQ:
		return matchEQ(spec, ver)
	case CmpOpPrefixEQ:
		return matchPrefix(spec, ver)
	case CmpOpNE:
		return !matchEQ(spec, ver)
	case CmpOpPrefixNE:
		return !matchPrefix(spec, ver)
	case CmpOpLE:
		// Inclusive ordered comparisons ignore the candidate's local label.
		return ver.Public().Cmp(spec) <= 0
	case CmpOpGE:
		return ver.Public().Cmp(spec) >= 0
	case CmpOpLT:
		return matchLT(spec, ver)
	case CmpOpGT:
		return matchGT(spec, ver)
	case CmpOpArbitraryEQ:
		return strings.EqualFold(clause.Exact, ver.String())
	default:
		panic(fmt.Errorf("invalid CmpOp: %d", int(clause.Op)))
	}
}

// matchCompatible implements "~= V": ">= V" together with "== V'.*", where
// V' is V minus its final release segment.
func matchCompatible(spec, ver Version) bool {
	prefix := Version{
		Epoch:   spec.Epoch,
		Release: spec.Release[:len(spec.Release)-1],
	}
	return ver.Public().Cmp(spec) >= 0 && matchPrefix(prefix, ver)
}

// matchEQ implements strict "== V" matching.  A local label on V must match
// exactly; a local label on the candidate is ignored unless V has one.
func matchEQ(spec, ver Version) bool {
	if len(spec.Local) == 0 {
		ver = ver.Public()
	}
	return ver.Cmp(spec) == 0
}

// matchPrefix implements "== V.*" matching.  Which segments must agree
// depends on the last part present in V: "==1.1.post1.*" constrains through
// the post-release, "==1.1a1.*" through the pre-release, and a bare
// "==1.1.*" constrains only a prefix of the release segments.
func matchPrefix(spec, ver Version) bool {
	if spec.Epoch != ver.Epoch {
		return false
	}
	switch {
	case spec.Post != nil:
		return cmpRelease(spec.Release, ver.Release) == 0 &&
			samePre(spec.Pre, ver.Pre) &&
			ver.Post != nil && *ver.Post == *spec.Post
	case spec.Pre != nil:
		return cmpRelease(spec.Release, ver.Release) == 0 &&
			samePre(spec.Pre, ver.Pre)
	default:
		release := ver.Release
		if len(release) > len(spec.Release) {
			release = release[:len(spec.Release)]
		}
		return cmpRelease(spec.Release, release) == 0
	}
}

func samePre(a, b *PreRelease) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return preReleaseOrder[strings.ToLower(a.L)] == preReleaseOrder[strings.ToLower(b.L)] &&
			a.N == b.N
	}
}

// matchLT implements the exclusive ordered comparison "< V".  The PEP
// additionally excludes pre-releases of V itself unless V is a pre-release.
func matchLT(spec, ver Version) bool {
	if ver.Cmp(spec) >= 0 {
		return false
	}
	if !spec.IsPreRelease() && ver.IsPreRelease() &&
		ver.BaseVersion().Cmp(spec.BaseVersion()) == 0 {
		return false
	}
	return true
}

// matchGT implements the exclusive ordered comparison "> V".  The PEP
// additionally excludes post-releases of V itself unless V is a
// post-release, and local versions of V.
func matchGT(spec, ver Version) bool {
	if ver.Cmp(spec) <= 0 {
		return false
	}
	if !spec.IsPostRelease() && ver.IsPostRelease() &&
		ver.BaseVersion().Cmp(spec.BaseVersion()) == 0 {
		return false
	}
	if len(ver.Local) > 0 && ver.BaseVersion().Cmp(spec.BaseVersion()) == 0 {
		return false
	}
	return true
}

// An ExclusionBehavior tells Specifier.Select which matching versions to
// pass over unless nothing else matches.
type ExclusionBehavior interface {
	// Allow reports whether the version may be chosen outright.
	Allow(Version) bool
}

// AllowAll is the no-op ExclusionBehavior.
type AllowAll struct{}

// Allow implements ExclusionBehavior.
func (AllowAll) Allow(Version) bool { return true }

// ExcludePreReleases is the ExclusionBehavior that pip calls not passing
// "--pre": pre-releases and development releases are passed over unless
// explicitly listed.
type ExcludePreReleases struct {
	// AllowList versions are allowed even though they are pre-releases.
	AllowList []Version
}

// Allow implements ExclusionBehavior.
func (b ExcludePreReleases) Allow(ver Version) bool {
	if !ver.IsPreRelease() {
		return true
	}
	for _, allowed := range b.AllowList {
		if ver.Cmp(allowed) == 0 {
			return true
		}
	}
	return false
}

// A MultiExcluder combines several ExclusionBehaviors; a version must be
// allowed by all of them.
type MultiExcluder []ExclusionBehavior

// Allow implements ExclusionBehavior.
func (m MultiExcluder) Allow(ver Version) bool {
	for _, b := range m {
		if !b.Allow(ver) {
			return false
		}
	}
	return true
}

var (
	_ ExclusionBehavior = AllowAll{}
	_ ExclusionBehavior = ExcludePreReleases{}
	_ ExclusionBehavior = MultiExcluder{}
)

// Select returns the best version from choices that matches the specifier,
// or nil if nothing matches.  Versions that the ExclusionBehavior rejects
// are chosen only if no allowed version matches; a nil ExclusionBehavior
// allows everything.
func (spec Specifier) Select(choices []Version, exclusionBehavior ExclusionBehavior) *Version {
	var best, bestExcluded *Version
	for i := range choices {
		choice := choices[i]
		if !spec.Match(choice) {
			continue
		}
		if exclusionBehavior == nil || exclusionBehavior.Allow(choice) {
			if best == nil || best.Cmp(choice) < 0 {
				best = &choice
			}
		} else if bestExcluded == nil || bestExcluded.Cmp(choice) < 0 {
			bestExcluded = &choice
		}
	}
	if best != nil {
		return best
	}
	// an excluded version is better than nothing
	return bestExcluded
}
