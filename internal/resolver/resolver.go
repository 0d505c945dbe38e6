// Package resolver selects the previous tag to diff a release against.
//
// QIIME2 plugin repositories carry two tag lineages: .devN pre-release
// tags and stable tags. A dev release is normally diffed against the
// newest other dev tag, unless the stable lineage has moved past it; a
// stable release is always diffed against the newest older stable tag,
// ignoring dev tags entirely. When no suitable tag exists the repository
// root commit is the diff base.
package resolver

import (
	"fmt"

	"github.com/bokulich-lab/relkit/internal/version"
)

// TagSource is the version-control metadata the resolver consumes.
// *git.Repository satisfies it.
type TagSource interface {
	// Tags lists all tag names in the repository.
	Tags() ([]string, error)
	// IsAncestor reports whether ancestor is reachable from descendant.
	IsAncestor(ancestor, descendant string) (bool, error)
	// RootCommit returns the hash of the repository's first commit.
	RootCommit() (string, error)
}

// Previous resolves the tag (or root commit hash) to diff releaseTag
// against. A non-empty previousOverride short-circuits resolution and is
// returned verbatim. The only failure modes are an empty releaseTag and
// errors from the underlying version-control queries.
func Previous(src TagSource, releaseTag, previousOverride string) (string, error) {
	if releaseTag == "" {
		return "", fmt.Errorf("release tag must not be empty")
	}
	if previousOverride != "" {
		return previousOverride, nil
	}

	names, err := src.Tags()
	if err != nil {
		return "", err
	}

	release := version.Parse(releaseTag)
	others := version.Exclude(version.ParseAll(names), releaseTag)

	var previous string
	if release.IsDev() {
		previous, err = previousForDev(src, others)
	} else {
		previous = previousForStable(release, others)
	}
	if err != nil {
		return "", err
	}

	if previous == "" {
		return src.RootCommit()
	}
	return previous, nil
}

// previousForDev picks between the newest other dev tag and the newest
// stable tag. Ancestry, not version precedence, decides the tie: a dev
// tag on a stale branch must lose to the stable tag that superseded it.
func previousForDev(src TagSource, others []version.Tag) (string, error) {
	dev, hasDev := version.Latest(version.Dev(others))
	stable, hasStable := version.Latest(version.Stable(others))

	switch {
	case !hasDev && !hasStable:
		return "", nil
	case !hasStable:
		return dev.Name, nil
	case !hasDev:
		return stable.Name, nil
	}

	ok, err := src.IsAncestor(stable.Name, dev.Name)
	if err != nil || !ok {
		// Indeterminate ancestry counts against the dev tag.
		return stable.Name, nil
	}
	return dev.Name, nil
}

// previousForStable picks the newest stable tag strictly preceding the
// release, ignoring dev tags.
func previousForStable(release version.Tag, others []version.Tag) string {
	var candidates []version.Tag
	for _, t := range version.Stable(others) {
		if t.Compare(release) < 0 {
			candidates = append(candidates, t)
		}
	}

	stable, ok := version.Latest(candidates)
	if !ok {
		return ""
	}
	return stable.Name
}
