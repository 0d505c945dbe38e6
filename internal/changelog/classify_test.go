package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		subject  string
		want     Category
		wantText string
	}{
		"ENH prefix": {
			subject:  "ENH: Add widget support",
			want:     NewFeatures,
			wantText: "add widget support",
		},
		"IMP prefix": {
			subject:  "IMP: Improve error messages",
			want:     NewFeatures,
			wantText: "improve error messages",
		},
		"ADD prefix": {
			subject:  "ADD: new visualizer",
			want:     NewFeatures,
			wantText: "new visualizer",
		},
		"BUG prefix": {
			subject:  "BUG: Crash on empty input",
			want:     BugFixes,
			wantText: "crash on empty input",
		},
		"FIX prefix": {
			subject:  "FIX: Broken parser",
			want:     BugFixes,
			wantText: "broken parser",
		},
		"MAINT prefix": {
			subject:  "MAINT: Bump dependencies",
			want:     Maintenance,
			wantText: "bump dependencies",
		},
		"CI prefix": {
			subject:  "CI: Pin runner image",
			want:     Maintenance,
			wantText: "pin runner image",
		},
		"TEST prefix": {
			subject:  "TEST: Cover resolver edge cases",
			want:     Maintenance,
			wantText: "cover resolver edge cases",
		},
		"DOC prefix": {
			subject:  "DOC: Rewrite install guide",
			want:     Documentation,
			wantText: "rewrite install guide",
		},
		"prefix match is case-insensitive": {
			subject:  "fix: off by one",
			want:     BugFixes,
			wantText: "off by one",
		},
		"mixed case prefix": {
			subject:  "Doc: Update README",
			want:     Documentation,
			wantText: "update README",
		},
		"unmatched subject kept verbatim": {
			subject:  "Refactor Internals",
			want:     OtherChanges,
			wantText: "Refactor Internals",
		},
		"unknown prefix is not stripped": {
			subject:  "WIP: half done",
			want:     OtherChanges,
			wantText: "WIP: half done",
		},
		"colon without prefix": {
			subject:  ": odd subject",
			want:     OtherChanges,
			wantText: ": odd subject",
		},
		"prefix only": {
			subject:  "ENH:",
			want:     NewFeatures,
			wantText: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			category, text := Classify(tt.subject)
			assert.Equal(t, tt.want, category)
			assert.Equal(t, tt.wantText, text)

			// Classification is idempotent on the same subject.
			again, _ := Classify(tt.subject)
			assert.Equal(t, category, again)
		})
	}
}

func TestCategoryLabels(t *testing.T) {
	want := []string{"New features", "Bug fixes", "Maintenance", "Documentation", "Other changes"}

	var got []string
	for _, c := range Categories() {
		got = append(got, c.Label())
	}
	assert.Equal(t, want, got)
}
