package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Repositories is the name→URL mapping of the plugin repositories the
// release tooling manages.
type Repositories map[string]string

// repositoriesFile matches the canonical layout: a list of name/url
// entries under a "repositories" key.
type repositoriesFile struct {
	Repositories []struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"repositories"`
}

// LoadRepositories reads the repositories mapping from a YAML file.
// Both the canonical list layout
//
//	repositories:
//	  - name: q2-fondue
//	    url: https://github.com/bokulich-lab/q2-fondue
//
// and a flat name→URL mapping are accepted.
func LoadRepositories(path string) (Repositories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading repositories file: %w", err)
	}

	var nested repositoriesFile
	if err := yaml.Unmarshal(data, &nested); err == nil && len(nested.Repositories) > 0 {
		repos := make(Repositories, len(nested.Repositories))
		for _, entry := range nested.Repositories {
			if entry.Name != "" {
				repos[entry.Name] = entry.URL
			}
		}
		return repos, nil
	}

	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("parsing repositories file %s: %w", path, err)
	}
	return flat, nil
}

// URL returns the browse URL for a repository name.
func (r Repositories) URL(name string) (string, bool) {
	url, ok := r[name]
	return url, ok
}

// Names returns the repository names in sorted order.
func (r Repositories) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
