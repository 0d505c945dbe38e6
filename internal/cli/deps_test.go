package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const depsTestRecipe = `package:
  name: q2-fondue
  version: 2024.10.0

requirements:
  run:
    - python >=3.9
    - qiime2 {{ qiime2_epoch }}.*
    - q2-types {{ qiime2_epoch }}.*
    - bowtie2 {{ bowtie2 }}
    - pandas
`

const depsTestRepositories = `repositories:
  - name: qiime2
    url: https://github.com/qiime2/qiime2
  - name: q2-types
    url: https://github.com/qiime2/q2-types
`

func TestDepsCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("meta.yaml", []byte(depsTestRecipe), 0o644))
	require.NoError(t, os.WriteFile("repositories.yml", []byte(depsTestRepositories), 0o644))

	out, err := executeCommand(t, "deps",
		"--distro", "moshpit",
		"--version-tag", "2024.10.0",
		"--recipe", "meta.yaml",
		"--repositories", "repositories.yml")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote environment.yml")
	assert.Contains(t, out, "Wrote repo-urls.txt")

	env, readErr := os.ReadFile("environment.yml")
	require.NoError(t, readErr)
	content := string(env)
	assert.Contains(t, content, "name: conda-env")
	assert.Contains(t, content, "https://packages.qiime2.org/qiime2/2024.10/moshpit/passed/")
	assert.Contains(t, content, "- conda-forge")
	assert.Contains(t, content, "qiime2==2024.10.0*")
	assert.Contains(t, content, "q2-types==2024.10.0*")
	assert.Contains(t, content, "bowtie2==2.5.1")
	assert.Contains(t, content, "- pandas")
	assert.Contains(t, content, "q2cli")

	urls, readErr := os.ReadFile("repo-urls.txt")
	require.NoError(t, readErr)
	assert.Equal(t, "git+https://github.com/qiime2/qiime2.git\ngit+https://github.com/qiime2/q2-types.git\n", string(urls))
}

func TestDepsCommandBlankVersionTag(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := executeCommand(t, "deps", "--distro", "moshpit", "--version-tag", "  ")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}
