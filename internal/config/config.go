// Package config provides configuration management for relkit using koanf.
// Values are loaded with priority: environment variables (RELKIT_*) >
// project config (.relkit.yml) > defaults. The repositories name→URL
// mapping lives in its own YAML file (repositories.yml by default)
// because it is shared verbatim with the CI workflows that consume it.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultProjectConfigPath is the project-level config file.
const DefaultProjectConfigPath = ".relkit.yml"

// Configuration holds the relkit CLI settings.
type Configuration struct {
	// GithubAPIURL is the base URL of the GitHub REST API. Override it
	// to point at a GitHub Enterprise instance or a test server.
	GithubAPIURL string `koanf:"github_api_url"`

	// RepoURL is the browse URL of the repository being released, used
	// for commit links in the changelog. When empty it is derived from
	// the repositories mapping or left out of the rendered links.
	RepoURL string `koanf:"repo_url"`

	// RepositoriesFile is the path of the name→URL mapping of all
	// QIIME2 plugin repositories this tooling manages.
	RepositoriesFile string `koanf:"repositories_file"`

	// CondaRecipe is the path of the conda recipe template the deps
	// command reads.
	CondaRecipe string `koanf:"conda_recipe"`

	// ChangelogPath is where the changelog command writes its output.
	ChangelogPath string `koanf:"changelog_path"`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]any {
	return map[string]any{
		"github_api_url":    "https://api.github.com",
		"repo_url":          "",
		"repositories_file": "repositories.yml",
		"conda_recipe":      "conda-recipe/meta.yaml",
		"changelog_path":    "changelog.md",
	}
}

// Load loads configuration from defaults, the project config file, and
// RELKIT_* environment variables, in increasing priority. projectPath
// overrides the project config location; an absent file is not an error.
func Load(projectPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if projectPath == "" {
		projectPath = DefaultProjectConfigPath
	}
	if fileExists(projectPath) {
		if err := k.Load(file.Provider(projectPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", projectPath, err)
		}
	}

	if err := k.Load(env.Provider("RELKIT_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// envTransform maps RELKIT_CONDA_RECIPE to the config key conda_recipe.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "RELKIT_"))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GithubToken returns the GitHub API token from the environment, or an
// empty string for unauthenticated access.
func GithubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}
