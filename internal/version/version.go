// Package version models QIIME2-style release tags of the form
// YYYY.MM[.patch][.devN] and provides precedence comparison over them.
// Tags are compared segment by segment as numbers (version-sort), never
// as plain strings, and a .devN pre-release sorts before the finalized
// version it precedes.
package version

import (
	"regexp"
	"strconv"
	"strings"
)

// devMarker is the substring that marks a pre-release tag (e.g. "2024.10.0.dev0").
const devMarker = ".dev"

// familyPattern extracts the YYYY.MM release family prefix from a tag name.
var familyPattern = regexp.MustCompile(`^(\d{4}\.\d{1,2})`)

// Tag is a parsed release tag. The zero value is not meaningful; construct
// tags with Parse. Parsing is total: names that do not follow the expected
// pattern still produce a Tag, they just carry no numeric segments and an
// empty family.
type Tag struct {
	// Name is the tag exactly as it appears in the repository.
	Name string

	segments []int
	dev      int // devN number, or -1 for stable tags
}

// Parse builds a Tag from a raw tag name. It never fails; unparseable
// names yield a Tag with no numeric segments that sorts below any
// well-formed tag.
func Parse(name string) Tag {
	t := Tag{Name: name, dev: -1}

	numeric := name
	if idx := strings.Index(name, devMarker); idx >= 0 {
		numeric = name[:idx]
		t.dev = parseDevNumber(name[idx+len(devMarker):])
	}

	for _, seg := range strings.Split(numeric, ".") {
		n, err := strconv.Atoi(seg)
		if err != nil {
			// Stop at the first non-numeric segment; anything after it
			// does not participate in precedence.
			break
		}
		t.segments = append(t.segments, n)
	}

	return t
}

// parseDevNumber parses the N of a .devN suffix, defaulting to 0 when the
// number is missing or malformed ("2024.10.0.dev" still counts as dev).
func parseDevNumber(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return 0
}

// IsDev reports whether the tag belongs to the pre-release lineage.
func (t Tag) IsDev() bool {
	return t.dev >= 0
}

// Family returns the YYYY.MM release family prefix of the tag, or an
// empty string when the name does not match the expected pattern. The
// empty result is a recoverable degradation for callers that label
// output with the family, not an error.
func (t Tag) Family() string {
	m := familyPattern.FindStringSubmatch(t.Name)
	if m == nil {
		return ""
	}
	return m[1]
}

// Compare returns -1, 0, or 1 as t sorts before, equal to, or after o
// under version precedence. Numeric segments are compared pairwise; a
// missing segment compares as less than any present segment, and a dev
// pre-release sorts before the finalized version with the same segments.
func (t Tag) Compare(o Tag) int {
	for i := 0; i < len(t.segments) || i < len(o.segments); i++ {
		a, b := -1, -1
		if i < len(t.segments) {
			a = t.segments[i]
		}
		if i < len(o.segments) {
			b = o.segments[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}

	// Same numeric segments: dev precedes stable, then by dev number.
	switch {
	case t.dev == o.dev:
		return 0
	case t.dev < 0:
		return 1
	case o.dev < 0:
		return -1
	case t.dev < o.dev:
		return -1
	default:
		return 1
	}
}

// ParseAll parses a list of raw tag names.
func ParseAll(names []string) []Tag {
	tags := make([]Tag, len(names))
	for i, name := range names {
		tags[i] = Parse(name)
	}
	return tags
}

// Latest returns the highest-precedence tag in the list and true, or the
// zero Tag and false when the list is empty.
func Latest(tags []Tag) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}
	best := tags[0]
	for _, t := range tags[1:] {
		if t.Compare(best) > 0 {
			best = t
		}
	}
	return best, true
}

// Dev returns the tags belonging to the pre-release lineage.
func Dev(tags []Tag) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.IsDev() {
			out = append(out, t)
		}
	}
	return out
}

// Stable returns the tags belonging to the stable lineage.
func Stable(tags []Tag) []Tag {
	var out []Tag
	for _, t := range tags {
		if !t.IsDev() {
			out = append(out, t)
		}
	}
	return out
}

// Exclude returns the tags whose name differs from name.
func Exclude(tags []Tag, name string) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.Name != name {
			out = append(out, t)
		}
	}
	return out
}
