package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bokulich-lab/relkit/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLatest(t *testing.T) {
	tags := func(names ...string) []github.Tag {
		out := make([]github.Tag, len(names))
		for i, n := range names {
			out[i] = github.Tag{Name: n}
		}
		return out
	}

	tests := map[string]struct {
		tags       []github.Tag
		wantDev    string
		wantStable string
	}{
		"no tags": {
			tags: nil,
		},
		"first of each lineage wins": {
			tags:       tags("2024.10.0.dev2", "2024.10.0.dev1", "2024.5.0", "2024.2.1"),
			wantDev:    "2024.10.0.dev2",
			wantStable: "2024.5.0",
		},
		"stable listed before dev": {
			tags:       tags("2024.10.0", "2024.10.0.dev3"),
			wantDev:    "2024.10.0.dev3",
			wantStable: "2024.10.0",
		},
		"only dev tags": {
			tags:    tags("2024.10.0.dev1", "2024.10.0.dev0"),
			wantDev: "2024.10.0.dev1",
		},
		"listing order trumps version order": {
			tags:       tags("2024.5.0", "2024.10.0"),
			wantStable: "2024.5.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dev, stable := splitLatest(tt.tags)
			assert.Equal(t, tt.wantDev, dev)
			assert.Equal(t, tt.wantStable, stable)
		})
	}
}

func TestLatestTagsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/qiime2/qiime2/tags", r.URL.Path)
		json.NewEncoder(w).Encode([]github.Tag{
			{Name: "2024.10.0.dev1"},
			{Name: "2024.10.0.dev0"},
			{Name: "2024.5.0"},
		})
	}))
	defer server.Close()

	t.Setenv("RELKIT_GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_ENV", "")
	t.Setenv("GITHUB_OUTPUT", "")

	out, err := executeCommand(t, "latest-tags", "qiime2/qiime2")
	require.NoError(t, err)
	assert.Equal(t, "latest-dev-tag=2024.10.0.dev1\nlatest-stable-tag=2024.5.0\n", out)
}

func TestLatestTagsCommandExportsToRunner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]github.Tag{{Name: "2024.10.0.dev1"}, {Name: "2024.5.0"}})
	}))
	defer server.Close()

	dir := t.TempDir()
	envFile := filepath.Join(dir, "env")
	outputFile := filepath.Join(dir, "output")
	t.Setenv("RELKIT_GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_ENV", envFile)
	t.Setenv("GITHUB_OUTPUT", outputFile)

	_, err := executeCommand(t, "latest-tags", "qiime2/qiime2")
	require.NoError(t, err)

	envContent, readErr := os.ReadFile(envFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(envContent), "LATEST_DEV_TAG=2024.10.0.dev1\n")
	assert.Contains(t, string(envContent), "LATEST_STABLE_TAG=2024.5.0\n")

	outputContent, readErr := os.ReadFile(outputFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(outputContent), "latest-dev-tag=2024.10.0.dev1\n")
	assert.Contains(t, string(outputContent), "latest-stable-tag=2024.5.0\n")
}
