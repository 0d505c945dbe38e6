// Package changelog turns the commit log between two release tags into
// a grouped, commit-linked Markdown document.
//
// Each commit subject is classified by its PREFIX: convention (ENH, BUG,
// DOC, ...) into one of five fixed categories. Rendering emits only the
// non-empty categories, in a fixed display order, with one bullet per
// commit in log order. The same rendered bytes go to changelog.md and to
// the CI step output.
package changelog
