package conda

import (
	"fmt"
	"io"
	"strings"

	"github.com/bokulich-lab/relkit/internal/config"
	"github.com/bokulich-lab/relkit/internal/version"
	"gopkg.in/yaml.v3"
)

// Manifest is a conda environment.yml document.
type Manifest struct {
	Name         string   `yaml:"name"`
	Channels     []string `yaml:"channels"`
	Dependencies []string `yaml:"dependencies"`
}

// BuildManifest assembles the environment manifest for a release. The
// per-release QIIME2 channel is derived from the version tag's YYYY.MM
// family and the distribution name (e.g. "amplicon", "moshpit").
func BuildManifest(deps *Dependencies, versionTag, distro string) Manifest {
	return Manifest{
		Name: "conda-env",
		Channels: []string{
			fmt.Sprintf("https://packages.qiime2.org/qiime2/%s/%s/passed/", channelVersion(versionTag), distro),
			"conda-forge",
			"bioconda",
			"defaults",
		},
		Dependencies: deps.All,
	}
}

// channelVersion extracts the YYYY.MM channel component from a version
// tag like "2023.5.0". Tags outside the expected pattern are used as-is
// rather than failing the generation.
func channelVersion(versionTag string) string {
	if family := version.Parse(versionTag).Family(); family != "" {
		return family
	}
	parts := strings.SplitN(versionTag, ".", 3)
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return versionTag
}

// Encode writes the manifest as YAML, keys in declaration order.
func (m Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding environment manifest: %w", err)
	}
	return enc.Close()
}

// RepoURLs resolves the QIIME2 package names of a recipe to pip-style
// git install URLs via the repositories mapping. Packages without a
// mapping entry are skipped, matching the tolerant behavior of the CI
// glue this replaces.
func RepoURLs(repos config.Repositories, packages []string) []string {
	var urls []string
	for _, name := range packages {
		if url, ok := repos.URL(name); ok && url != "" {
			urls = append(urls, "git+"+url+".git")
		}
	}
	return urls
}
