package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// A Version is a parsed PEP 440 version identifier.
//
// The canonical form of a version is
//
//	[N!]N(.N)*[{a|b|rc}N][.postN][.devN][+<local>]
//
// but ParseVersion accepts every normalization that the PEP requires: mixed
// case, alternate pre-release and post-release spellings, "-" or "_" as
// separators, a leading "v", and implicit "-N" post-releases.
type Version struct {
	// Epoch is the "N!" prefix, implicitly 0 when absent.
	Epoch int
	// Release is the "N(.N)*" segment.
	Release []int
	// Pre is the "{a|b|rc}N" segment, nil when absent.
	Pre *PreRelease
	// Post is the ".postN" segment, nil when absent.
	Post *int
	// Dev is the ".devN" segment, nil when absent.
	Dev *int
	// Local is the "+foo.N" label split on separators; each part is either
	// numeric or a lowercase string.
	Local []intstr.IntOrString
}

// A PreRelease is the pre-release segment of a Version.  ParseVersion
// canonicalizes the letter part to "a", "b", or "rc".
type PreRelease struct {
	L string
	N int
}

// String returns the canonical normalized form of the version.
func (v Version) String() string {
	var str strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&str, "%d!", v.Epoch)
	}
	for i, n := range v.Release {
		if i > 0 {
			str.WriteByte('.')
		}
		str.WriteString(strconv.Itoa(n))
	}
	if v.Pre != nil {
		fmt.Fprintf(&str, "%s%d", v.Pre.L, v.Pre.N)
	}
	if v.Post != nil {
		fmt.Fprintf(&str, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&str, ".dev%d", *v.Dev)
	}
	for i, seg := range v.Local {
		if i == 0 {
			str.WriteByte('+')
		} else {
			str.WriteByte('.')
		}
		str.WriteString(seg.String())
	}
	return str.String()
}

// Major returns the first release segment.
func (v Version) Major() int { return v.releaseSegment(0) }

// Minor returns the second release segment, or 0 if there is none.
func (v Version) Minor() int { return v.releaseSegment(1) }

// Micro returns the third release segment, or 0 if there is none.
func (v Version) Micro() int { return v.releaseSegment(2) }

func (v Version) releaseSegment(i int) int {
	if i < len(v.Release) {
		return v.Release[i]
	}
	return 0
}

// IsPreRelease reports whether the version is a pre-release or a development
// release.  Most tools hide such versions unless they are asked for.
func (v Version) IsPreRelease() bool { return v.Pre != nil || v.Dev != nil }

// IsPostRelease reports whether the version has a post-release segment.
func (v Version) IsPostRelease() bool { return v.Post != nil }

// IsFinal reports whether the version is a plain release with no pre, post,
// dev, or local segment.
func (v Version) IsFinal() bool {
	return v.Pre == nil && v.Post == nil && v.Dev == nil && len(v.Local) == 0
}

// BaseVersion returns just the epoch and release segments of the version.
func (v Version) BaseVersion() Version {
	return Version{Epoch: v.Epoch, Release: v.Release}
}

// Public returns the version without its local label.
func (v Version) Public() Version {
	v.Local = nil
	return v
}

// Normalize re-parses the rendered form of the version, canonicalizing any
// hand-constructed field values.
func (v Version) Normalize() (*Version, error) {
	return ParseVersion(v.String())
}

// Cmp returns a value less than, equal to, or greater than zero according to
// whether version a sorts before, the same as, or after version b.
func (a Version) Cmp(b Version) int {
	if d := a.Epoch - b.Epoch; d != 0 {
		return d
	}
	if d := cmpRelease(a.Release, b.Release); d != 0 {
		return d
	}
	if d := cmpPreRelease(a, b); d != 0 {
		return d
	}
	if d := cmpPost(a.Post, b.Post); d != 0 {
		return d
	}
	if d := cmpDev(a.Dev, b.Dev); d != 0 {
		return d
	}
	return cmpLocal(a.Local, b.Local)
}

// cmpRelease compares release segments, zero-padding the shorter so that
// "1.2" and "1.2.0" compare equal.
func cmpRelease(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var aSeg, bSeg int
		if i < len(a) {
			aSeg = a[i]
		}
		if i < len(b) {
			bSeg = b[i]
		}
		if aSeg != bSeg {
			return aSeg - bSeg
		}
	}
	return 0
}

// preReleaseOrder ranks the phases of a release cycle; 0 is the final
// release itself.
//
//nolint:gochecknoglobals // Would be 'const'.
var preReleaseOrder = map[string]int{
	"a": -3, "alpha": -3,
	"b": -2, "beta": -2,
	"rc": -1, "c": -1, "pre": -1, "preview": -1,
}

// prePhase returns where in the release cycle the version sits.  A dev
// release with no pre or post segment sorts before any pre-release of the
// same release.
func (v Version) prePhase() int {
	switch {
	case v.Pre != nil:
		order, ok := preReleaseOrder[strings.ToLower(v.Pre.L)]
		if !ok {
			panic(fmt.Errorf("invalid pre-release letter: %q", v.Pre.L))
		}
		return order
	case v.Dev != nil && v.Post == nil:
		return -4
	default:
		return 0
	}
}

func cmpPreRelease(a, b Version) int {
	if d := a.prePhase() - b.prePhase(); d != 0 {
		return d
	}
	if a.Pre != nil && b.Pre != nil {
		return a.Pre.N - b.Pre.N
	}
	return 0
}

// cmpPost orders versions without a post-release before versions with one.
func cmpPost(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return *a - *b
	}
}

// cmpDev orders development releases before the release that they lead up
// to.
func cmpDev(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return *a - *b
	}
}

// cmpLocal compares local version labels.  Versions without one sort first,
// numeric segments sort after lexical segments, and otherwise the segments
// compare pairwise with ties broken by length.
func cmpLocal(a, b []intstr.IntOrString) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		aSeg, bSeg := a[i], b[i]
		switch {
		case aSeg.Type == intstr.Int && bSeg.Type == intstr.Int:
			if d := aSeg.IntValue() - bSeg.IntValue(); d != 0 {
				return d
			}
		case aSeg.Type == intstr.Int:
			return 1
		case bSeg.Type == intstr.Int:
			return -1
		default:
			if d := strings.Compare(aSeg.StrVal, bSeg.StrVal); d != 0 {
				return d
			}
		}
	}
	return len(a) - len(b)
}

// reVersion is the "permissive" version pattern from the PEP's Appendix B,
// anchored and relaxed about surrounding whitespace.
//
//nolint:gochecknoglobals // Would be 'const'.
var reVersion = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` + // epoch
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` + // release segment
	`(?:` + // pre-release
	`[-_.]?` +
	`(?P<pre_l>alpha|a|beta|b|preview|pre|c|rc)` +
	`[-_.]?` +
	`(?P<pre_n>[0-9]+)?` +
	`)?` +
	`(?:` + // post release
	`(?:-(?P<post_n1>[0-9]+))` +
	`|` +
	`(?:` +
	`[-_.]?` +
	`(?P<post_l>post|rev|r)` +
	`[-_.]?` +
	`(?P<post_n2>[0-9]+)?` +
	`)` +
	`)?` +
	`(?:` + // dev release
	`[-_.]?` +
	`(?P<dev_l>dev)` +
	`[-_.]?` +
	`(?P<dev_n>[0-9]+)?` +
	`)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?` + // local version
	`\s*$`)

// canonicalPreSpelling maps the alternate pre-release spellings that the PEP
// permits to their canonical forms.
//
//nolint:gochecknoglobals // Would be 'const'.
var canonicalPreSpelling = map[string]string{
	"a": "a", "alpha": "a",
	"b": "b", "beta": "b",
	"rc": "rc", "c": "rc", "pre": "rc", "preview": "rc",
}

// ParseVersion parses a version identifier, accepting any of the forms that
// the PEP's normalization rules permit.
func ParseVersion(str string) (*Version, error) {
	ret, err := parseVersion(str)
	if err != nil {
		return nil, fmt.Errorf("pep440.ParseVersion: %w", err)
	}
	return ret, nil
}

func parseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, fmt.Errorf("invalid version: %q", str)
	}

	var ret Version
	var err error

	if epoch := match[reVersion.SubexpIndex("epoch")]; epoch != "" {
		if ret.Epoch, err = strconv.Atoi(epoch); err != nil {
			return nil, fmt.Errorf("invalid version: %q: %w", str, err)
		}
	}

	for _, seg := range strings.Split(match[reVersion.SubexpIndex("release")], ".") {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("invalid version: %q: %w", str, err)
		}
		ret.Release = append(ret.Release, n)
	}

	if preL := match[reVersion.SubexpIndex("pre_l")]; preL != "" {
		n, err := parseOptionalN(match[reVersion.SubexpIndex("pre_n")])
		if err != nil {
			return nil, fmt.Errorf("invalid version: %q: %w", str, err)
		}
		ret.Pre = &PreRelease{
			L: canonicalPreSpelling[strings.ToLower(preL)],
			N: n,
		}
	}

	switch {
	case match[reVersion.SubexpIndex("post_n1")] != "":
		n, err := strconv.Atoi(match[reVersion.SubexpIndex("post_n1")])
		if err != nil {
			return nil, fmt.Errorf("invalid version: %q: %w", str, err)
		}
		ret.Post = &n
	case match[reVersion.SubexpIndex("post_l")] != "":
		n, err := parseOptionalN(match[reVersion.SubexpIndex("post_n2")])
		if err != nil {
			return nil, fmt.Errorf("invalid version: %q: %w", str, err)
		}
		ret.Post = &n
	}

	if match[reVersion.SubexpIndex("dev_l")] != "" {
		n, err := parseOptionalN(match[reVersion.SubexpIndex("dev_n")])
		if err != nil {
			return nil, fmt.Errorf("invalid version: %q: %w", str, err)
		}
		ret.Dev = &n
	}

	if local := match[reVersion.SubexpIndex("local")]; local != "" {
		isSep := func(r rune) bool { return r == '-' || r == '_' || r == '.' }
		for _, seg := range strings.FieldsFunc(local, isSep) {
			ret.Local = append(ret.Local, intstr.Parse(strings.ToLower(seg)))
		}
	}

	return &ret, nil
}

// parseOptionalN parses the numeral of a pre, post, or dev segment, which
// the PEP says is implicitly zero when omitted.
func parseOptionalN(str string) (int, error) {
	if str == "" {
		return 0, nil
	}
	return strconv.Atoi(str)
}
