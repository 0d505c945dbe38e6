package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testRepoURL = "https://github.com/bokulich-lab/q2-example"

func TestBuildRoundTrip(t *testing.T) {
	commits := []Commit{
		{Hash: "a1", Subject: "ENH: add widget"},
		{Hash: "b2", Subject: "FIX: broken parser"},
		{Hash: "c3", Subject: "refactor internals"},
	}

	got := Build("2024.10.0", testRepoURL, commits)

	assert.Contains(t, got, "# 📋 2024.10 Changelog")
	assert.Contains(t, got, "## New features")
	assert.Contains(t, got, "- add widget ([a1]("+testRepoURL+"/commit/a1))")
	assert.Contains(t, got, "## Bug fixes")
	assert.Contains(t, got, "- broken parser ([b2]("+testRepoURL+"/commit/b2))")
	assert.Contains(t, got, "## Other changes")
	assert.Contains(t, got, "- refactor internals ([c3]("+testRepoURL+"/commit/c3))")

	assert.NotContains(t, got, "## Maintenance")
	assert.NotContains(t, got, "## Documentation")
}

func TestBuildOmitsEmptyCategories(t *testing.T) {
	commits := []Commit{
		{Hash: "d4", Subject: "DOC: clarify usage"},
	}

	got := Build("2024.10.0", testRepoURL, commits)

	assert.Contains(t, got, "## Documentation")
	for _, heading := range []string{"## New features", "## Bug fixes", "## Maintenance", "## Other changes"} {
		assert.NotContains(t, got, heading)
	}
}

func TestBuildEmptyRange(t *testing.T) {
	got := Build("2024.10.0", testRepoURL, nil)
	assert.Equal(t, "# 📋 2024.10 Changelog\n", got)
}

func TestBuildPreservesLogOrder(t *testing.T) {
	commits := []Commit{
		{Hash: "f1", Subject: "ENH: newest feature"},
		{Hash: "f2", Subject: "ENH: middle feature"},
		{Hash: "f3", Subject: "ENH: oldest feature"},
	}

	got := Build("2024.10.0", testRepoURL, commits)

	newest := strings.Index(got, "newest feature")
	middle := strings.Index(got, "middle feature")
	oldest := strings.Index(got, "oldest feature")
	assert.True(t, newest < middle && middle < oldest, "bullets must keep log order")
}

func TestBuildUnparseableReleaseTag(t *testing.T) {
	// Family extraction failure degrades to an unlabeled heading.
	got := Build("not-a-release", testRepoURL, nil)
	assert.Equal(t, "# 📋 Changelog\n", got)
}

func TestBuildWithoutRepoURL(t *testing.T) {
	got := Build("2024.10.0", "", []Commit{{Hash: "a1", Subject: "ENH: add widget"}})
	assert.Contains(t, got, "- add widget (a1)")
	assert.NotContains(t, got, "](")
}

func TestRenderIsDeterministic(t *testing.T) {
	commits := []Commit{
		{Hash: "a1", Subject: "ENH: add widget"},
		{Hash: "b2", Subject: "MAINT: tidy up"},
	}

	first := Build("2024.10.0", testRepoURL, commits)
	second := Build("2024.10.0", testRepoURL, commits)
	assert.Equal(t, first, second)
}
