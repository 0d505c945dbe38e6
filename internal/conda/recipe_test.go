package conda

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bokulich-lab/relkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseRecipeCleanYAML(t *testing.T) {
	path := writeRecipe(t, `package:
  name: q2-fondue
requirements:
  run:
    - python >=3.9
    - qiime2 {{ qiime2_epoch }}
    - q2-types {{ qiime2_epoch }}
    - bowtie2 {{ bowtie2 }}
    - pandas
`)

	deps, err := ParseRecipe(path, "2023.5.0")
	require.NoError(t, err)

	assert.Contains(t, deps.All, "python >=3.9")
	assert.Contains(t, deps.All, "qiime2==2023.5.0*")
	assert.Contains(t, deps.All, "q2-types==2023.5.0*")
	assert.Contains(t, deps.All, "bowtie2==2.5.1")
	assert.Contains(t, deps.All, "pandas")
	// q2cli is appended when the recipe does not require it.
	assert.Contains(t, deps.All, "q2cli")

	assert.Equal(t, []string{"qiime2", "q2-types"}, deps.QiimePackages)
}

func TestParseRecipeJinjaFallback(t *testing.T) {
	// A realistic recipe: the Jinja header makes this invalid YAML, so
	// the run section has to be scanned line by line.
	path := writeRecipe(t, `{% set data = load_setup_py_data() %}

package:
  name: q2-moshpit
  version: {{ data['version'] }}

requirements:
  run:
    - python >=3.9
    - qiime2 {{ qiime2_epoch }}
    - q2-assembly {{ qiime2_epoch }}
    - pysam {{ pysam }}
    - spades {{ spades }}
  host:
    - setuptools
`)

	deps, err := ParseRecipe(path, "2024.10.0")
	require.NoError(t, err)

	assert.Contains(t, deps.All, "qiime2==2024.10.0*")
	assert.Contains(t, deps.All, "q2-assembly==2024.10.0*")
	assert.Contains(t, deps.All, "pysam==0.22.1")
	assert.Contains(t, deps.All, "spades==4.0.0")
	// The host section must not leak into run dependencies.
	assert.NotContains(t, deps.All, "setuptools")

	assert.Equal(t, []string{"qiime2", "q2-assembly"}, deps.QiimePackages)
}

func TestParseRecipeKeepsExistingQ2cli(t *testing.T) {
	path := writeRecipe(t, `requirements:
  run:
    - q2cli {{ qiime2_epoch }}
`)

	deps, err := ParseRecipe(path, "2024.10.0")
	require.NoError(t, err)

	count := 0
	for _, dep := range deps.All {
		if strings.Contains(dep, "q2cli") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParseRecipeMissingFile(t *testing.T) {
	_, err := ParseRecipe(filepath.Join(t.TempDir(), "nope.yaml"), "2024.10.0")
	assert.Error(t, err)
}

func TestBuildManifest(t *testing.T) {
	deps := &Dependencies{All: []string{"qiime2==2024.10.0*", "pandas", "q2cli"}}

	manifest := BuildManifest(deps, "2024.10.0", "moshpit")

	assert.Equal(t, "conda-env", manifest.Name)
	require.Len(t, manifest.Channels, 4)
	assert.Equal(t, "https://packages.qiime2.org/qiime2/2024.10/moshpit/passed/", manifest.Channels[0])
	assert.Equal(t, []string{"conda-forge", "bioconda", "defaults"}, manifest.Channels[1:])
	assert.Equal(t, deps.All, manifest.Dependencies)
}

func TestBuildManifestOddVersionTag(t *testing.T) {
	manifest := BuildManifest(&Dependencies{}, "experimental", "amplicon")
	assert.Equal(t, "https://packages.qiime2.org/qiime2/experimental/amplicon/passed/", manifest.Channels[0])
}

func TestManifestEncode(t *testing.T) {
	manifest := BuildManifest(&Dependencies{All: []string{"pandas", "q2cli"}}, "2024.10.0", "amplicon")

	var sb strings.Builder
	require.NoError(t, manifest.Encode(&sb))

	got := sb.String()
	assert.True(t, strings.HasPrefix(got, "name: conda-env\n"), got)
	assert.Contains(t, got, "channels:\n")
	assert.Contains(t, got, "  - pandas\n")
}

func TestRepoURLs(t *testing.T) {
	repos := config.Repositories{
		"qiime2":   "https://github.com/qiime2/qiime2",
		"q2-types": "https://github.com/qiime2/q2-types",
	}

	urls := RepoURLs(repos, []string{"qiime2", "q2-types", "q2-unmapped"})
	assert.Equal(t, []string{
		"git+https://github.com/qiime2/qiime2.git",
		"git+https://github.com/qiime2/q2-types.git",
	}, urls)
}
