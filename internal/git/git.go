// Package git provides the version-control queries relkit needs: tag
// listing, ancestry tests, commit-log ranges, and root-commit lookup.
// It uses the go-git library exclusively, so no git CLI installation is
// required on the CI runner.
package git

import (
	"fmt"
	"os"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it is a no-op; set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// CommitRecord is one entry from the commit log between two references.
type CommitRecord struct {
	Hash        string // short hash, stable reference for changelog links
	AuthorName  string
	AuthorEmail string
	Subject     string // first line of the commit message
}

// shortHashLen matches the abbreviated hash length git uses by default.
const shortHashLen = 7

// Repository wraps an opened git repository and exposes the metadata
// queries used by tag resolution and changelog generation. All queries
// are read-only.
type Repository struct {
	repo *gitlib.Repository
}

// Open opens the repository at path, or the repository containing the
// current working directory when path is empty. DetectDotGit is enabled
// so invocations from a subdirectory find the repository root.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Repository{repo: repo}, nil
}

// Tags returns the names of all tags in the repository.
func (r *Repository) Tags() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	logDebug("[git] Tags: found %d tags", len(names))
	return names, nil
}

// ResolveCommit resolves a tag name, branch name, or (abbreviated) hash
// to the commit it points at, peeling annotated tags.
func (r *Repository) ResolveCommit(ref string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", ref, err)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return commit, nil
}

// IsAncestor reports whether ancestor is reachable from descendant in
// the commit graph. Either reference may be a tag, branch, or hash.
func (r *Repository) IsAncestor(ancestor, descendant string) (bool, error) {
	a, err := r.ResolveCommit(ancestor)
	if err != nil {
		return false, err
	}
	d, err := r.ResolveCommit(descendant)
	if err != nil {
		return false, err
	}

	ok, err := a.IsAncestor(d)
	if err != nil {
		return false, fmt.Errorf("ancestry check %s..%s: %w", ancestor, descendant, err)
	}

	logDebug("[git] IsAncestor(%s, %s) = %v", ancestor, descendant, ok)
	return ok, nil
}

// CommitsBetween returns the commits reachable from release but not from
// prev (prev exclusive, release inclusive), newest first, exactly as the
// log traversal yields them. An empty range is a valid empty result.
func (r *Repository) CommitsBetween(prev, release string) ([]CommitRecord, error) {
	releaseCommit, err := r.ResolveCommit(release)
	if err != nil {
		return nil, err
	}

	excluded, err := r.reachableFrom(prev)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&gitlib.LogOptions{From: releaseCommit.Hash})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", release, err)
	}

	var records []CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		records = append(records, newRecord(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating log %s..%s: %w", prev, release, err)
	}

	logDebug("[git] CommitsBetween(%s, %s): %d commits", prev, release, len(records))
	return records, nil
}

// reachableFrom returns the set of commit hashes reachable from ref.
func (r *Repository) reachableFrom(ref string) (map[plumbing.Hash]bool, error) {
	commit, err := r.ResolveCommit(ref)
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	iter := object.NewCommitPreorderIter(commit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history of %s: %w", ref, err)
	}
	return seen, nil
}

// RootCommit returns the hash of the repository's first commit: the
// oldest parentless commit reachable from HEAD. Used as the diff base
// when no previous tag exists.
func (r *Repository) RootCommit() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := r.repo.Log(&gitlib.LogOptions{From: head.Hash()})
	if err != nil {
		return "", fmt.Errorf("reading log from HEAD: %w", err)
	}

	var root *object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() != 0 {
			return nil
		}
		if root == nil || c.Committer.When.Before(root.Committer.When) {
			root = c
		}
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return "", fmt.Errorf("walking history for root commit: %w", err)
	}

	if root == nil {
		return "", fmt.Errorf("no root commit found")
	}

	logDebug("[git] RootCommit: %s", root.Hash)
	return root.Hash.String(), nil
}

// newRecord converts a go-git commit into the flat record the changelog
// builder consumes.
func newRecord(c *object.Commit) CommitRecord {
	subject := c.Message
	for i, r := range subject {
		if r == '\n' {
			subject = subject[:i]
			break
		}
	}

	return CommitRecord{
		Hash:        c.Hash.String()[:shortHashLen],
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		Subject:     subject,
	}
}
