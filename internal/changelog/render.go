package changelog

import (
	"fmt"
	"strings"

	"github.com/bokulich-lab/relkit/internal/version"
)

// Builder accumulates classified commit lines for one changelog run.
// It owns one ordered line sequence per category; lines are appended in
// the order commits are added and never re-sorted.
type Builder struct {
	family  string
	repoURL string
	lines   map[Category][]string
}

// NewBuilder creates a builder for the given release tag. The family
// label in the heading is derived from the tag's YYYY.MM prefix; a tag
// that does not match the pattern yields an unlabeled heading rather
// than an error. repoURL is the base repository URL used for commit
// links and may be empty, in which case hashes are rendered unlinked.
func NewBuilder(releaseTag, repoURL string) *Builder {
	return &Builder{
		family:  version.Parse(releaseTag).Family(),
		repoURL: strings.TrimSuffix(repoURL, "/"),
		lines:   make(map[Category][]string),
	}
}

// Add classifies one commit and appends its rendered line to the
// matching category.
func (b *Builder) Add(c Commit) {
	category, text := Classify(c.Subject)
	b.lines[category] = append(b.lines[category], text+" ("+b.commitRef(c.Hash)+")")
}

// commitRef renders the hash reference appended to every line: a
// Markdown link when the repository URL is known, the bare hash
// otherwise.
func (b *Builder) commitRef(hash string) string {
	if b.repoURL == "" {
		return hash
	}
	return fmt.Sprintf("[%s](%s/commit/%s)", hash, b.repoURL, hash)
}

// Render produces the final Markdown document: the release-family
// heading followed by each non-empty category section in display order.
// An empty commit range renders the heading alone, which is a valid
// result, not an error.
func (b *Builder) Render() string {
	var sb strings.Builder

	if b.family == "" {
		sb.WriteString("# 📋 Changelog\n")
	} else {
		fmt.Fprintf(&sb, "# 📋 %s Changelog\n", b.family)
	}

	for _, category := range Categories() {
		lines := b.lines[category]
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n", category.Label())
		for _, line := range lines {
			sb.WriteString("- " + line + "\n")
		}
	}

	return sb.String()
}

// Build renders a changelog for the given commits in one call.
func Build(releaseTag, repoURL string, commits []Commit) string {
	b := NewBuilder(releaseTag, repoURL)
	for _, c := range commits {
		b.Add(c)
	}
	return b.Render()
}
