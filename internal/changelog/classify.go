package changelog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// prefixCategories maps the recognized subject prefixes (upper-cased,
// without the trailing colon) to their category.
var prefixCategories = map[string]Category{
	"ENH":   NewFeatures,
	"IMP":   NewFeatures,
	"ADD":   NewFeatures,
	"BUG":   BugFixes,
	"FIX":   BugFixes,
	"MAINT": Maintenance,
	"CI":    Maintenance,
	"TEST":  Maintenance,
	"DOC":   Documentation,
}

// Classify assigns a commit subject to a category and returns the text
// to render for it. Matching is case-insensitive on the PREFIX: form.
// For a matched subject the prefix and colon are stripped and only the
// first rune of the remainder is lower-cased; an unmatched subject is
// returned verbatim under OtherChanges. Classification is total: every
// subject maps to exactly one category.
func Classify(subject string) (Category, string) {
	colon := strings.Index(subject, ":")
	if colon > 0 {
		prefix := strings.ToUpper(strings.TrimSpace(subject[:colon]))
		if category, ok := prefixCategories[prefix]; ok {
			rest := strings.TrimLeft(subject[colon+1:], " ")
			return category, lowerFirst(rest)
		}
	}
	return OtherChanges, subject
}

// lowerFirst lower-cases only the first rune of s.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
