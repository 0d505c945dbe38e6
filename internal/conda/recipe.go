// Package conda generates conda environment manifests from a plugin's
// conda recipe. The recipe's requirements.run section is extracted,
// Jinja-style version pins are substituted for the release being built,
// and QIIME2-ecosystem packages are split out so their source
// repositories can be installed from git.
package conda

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pinned tool versions substituted for their recipe template variables.
const (
	bowtie2Pin = "==2.5.1"
	pysamPin   = "==0.22.1"
	spadesPin  = "==4.0.0"
)

var (
	// epochPattern replaces the qiime2_epoch template and everything
	// after it with the concrete release pin.
	epochPattern = regexp.MustCompile(` \{\{ qiime2_epoch \}\}.*`)

	// qiimePackagePattern recognizes QIIME2-ecosystem package names.
	qiimePackagePattern = regexp.MustCompile(`^(q2|qiime2)`)

	// runSectionStart and sectionBoundary drive the line-oriented
	// fallback parser for recipes whose Jinja templating breaks YAML.
	runSectionStart = regexp.MustCompile(`^\s*run:`)
	sectionKey      = regexp.MustCompile(`^\s*[a-zA-Z0-9_-]+:`)
	hasContent      = regexp.MustCompile(`[a-zA-Z0-9]`)

	dashEntry = regexp.MustCompile(`^\s*-\s*`)
)

// recipe matches the subset of a conda meta.yaml the generator needs.
type recipe struct {
	Requirements struct {
		Run []string `yaml:"run"`
	} `yaml:"requirements"`
}

// Dependencies holds the extracted run dependencies of a recipe.
type Dependencies struct {
	// All lists every run dependency with version pins substituted.
	All []string
	// QiimePackages lists the names of the QIIME2-ecosystem packages
	// among them (q2-* plugins and qiime2 itself).
	QiimePackages []string
}

// ParseRecipe reads a conda recipe and extracts its run dependencies,
// substituting the template pins for the given release tag. Recipes
// whose Jinja templating is not valid YAML are handled by a
// line-oriented scan of the run section.
func ParseRecipe(path, versionTag string) (*Dependencies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading conda recipe: %w", err)
	}

	var parsed recipe
	if err := yaml.Unmarshal(data, &parsed); err == nil && len(parsed.Requirements.Run) > 0 {
		return collect(parsed.Requirements.Run, versionTag), nil
	}

	return scanRunSection(string(data), versionTag), nil
}

// collect substitutes pins and classifies dependencies parsed from YAML.
func collect(runDeps []string, versionTag string) *Dependencies {
	deps := &Dependencies{}
	for _, dep := range runDeps {
		dep = substitutePins(dep, versionTag)
		deps.All = append(deps.All, cleanEntry(dep))

		name := firstToken(dep)
		if qiimePackagePattern.MatchString(name) {
			deps.QiimePackages = append(deps.QiimePackages, name)
		}
	}
	deps.ensureQ2cli()
	return deps
}

// scanRunSection extracts the run section line by line, for recipes
// where Jinja templates make the YAML unparseable.
func scanRunSection(content, versionTag string) *Dependencies {
	deps := &Dependencies{}
	inside := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")

		if runSectionStart.MatchString(line) {
			inside = true
			continue
		}
		if inside && (!hasContent.MatchString(line) || sectionKey.MatchString(line)) {
			break
		}
		if !inside {
			continue
		}

		line = substitutePins(line, versionTag)
		deps.All = append(deps.All, cleanEntry(line))

		name := firstToken(dashEntry.ReplaceAllString(line, ""))
		if qiimePackagePattern.MatchString(name) {
			deps.QiimePackages = append(deps.QiimePackages, name)
		}
	}

	deps.ensureQ2cli()
	return deps
}

// substitutePins replaces the recipe's Jinja template variables with
// concrete version pins for this release.
func substitutePins(dep, versionTag string) string {
	if strings.Contains(dep, "{{ qiime2_epoch }}") {
		dep = epochPattern.ReplaceAllString(dep, "=="+versionTag+"*")
	}
	dep = strings.ReplaceAll(dep, " {{ bowtie2 }}", bowtie2Pin)
	dep = strings.ReplaceAll(dep, " {{ pysam }}", pysamPin)
	dep = strings.ReplaceAll(dep, " {{ spades }}", spadesPin)
	return dep
}

// ensureQ2cli appends q2cli when the recipe does not already require it;
// the generated environment must always be able to run QIIME2 commands.
func (d *Dependencies) ensureQ2cli() {
	for _, dep := range d.All {
		if strings.Contains(dep, "q2cli") {
			return
		}
	}
	d.All = append(d.All, "q2cli")
}

// cleanEntry strips list markup and indentation from a dependency line.
func cleanEntry(dep string) string {
	dep = strings.TrimSpace(dep)
	dep = strings.TrimPrefix(dep, "-")
	return strings.TrimSpace(dep)
}

// firstToken returns the package name portion of a dependency spec,
// stopping at whitespace or a version constraint.
func firstToken(dep string) string {
	dep = strings.TrimSpace(dep)
	for i, r := range dep {
		if r == ' ' || r == '=' || r == '<' || r == '>' {
			return dep[:i]
		}
	}
	return dep
}
