package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/bokulich-lab/relkit/internal/conda"
	"github.com/bokulich-lab/relkit/internal/config"
	"github.com/bokulich-lab/relkit/internal/errors"
	"github.com/bokulich-lab/relkit/internal/output"
	"github.com/spf13/cobra"
)

var (
	depsDistroFlag       string
	depsVersionTagFlag   string
	depsRecipeFlag       string
	depsRepositoriesFlag string
)

// Output paths match what the downstream Docker build steps expect.
const (
	envOutputFile      = "environment.yml"
	repoURLsOutputFile = "repo-urls.txt"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Generate the conda environment manifest from a recipe",
	Long: `Extract the run dependencies from a plugin's conda recipe and write the
conda environment manifest used by the image build.

The recipe's Jinja version pins ({{ qiime2_epoch }} and the fixed tool
pins) are substituted for the release being built, the per-release
QIIME2 package channel is derived from the version tag and distribution,
and q2cli is added when the recipe does not require it. QIIME2-ecosystem
dependencies are additionally resolved to git install URLs through the
repositories mapping and written to repo-urls.txt.

Example:
  relkit deps --distro moshpit --version-tag 2024.10.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeps(cmd)
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.Flags().StringVar(&depsDistroFlag, "distro", "", "Distribution name (e.g. amplicon, moshpit)")
	depsCmd.Flags().StringVar(&depsVersionTagFlag, "version-tag", "", "Release version tag (e.g. 2024.10.0)")
	depsCmd.Flags().StringVar(&depsRecipeFlag, "recipe", "", "Path to the conda recipe (default: conda_recipe from config)")
	depsCmd.Flags().StringVar(&depsRepositoriesFlag, "repositories", "", "Path to the repositories mapping (default: repositories_file from config)")
	depsCmd.MarkFlagRequired("distro")
	depsCmd.MarkFlagRequired("version-tag")
}

func runDeps(cmd *cobra.Command) error {
	if strings.TrimSpace(depsVersionTagFlag) == "" {
		return errors.NewArgumentError("version tag must not be empty",
			"Pass the release being built, e.g. --version-tag 2024.10.0")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	recipePath := depsRecipeFlag
	if recipePath == "" {
		recipePath = cfg.CondaRecipe
	}
	repositoriesPath := depsRepositoriesFlag
	if repositoriesPath == "" {
		repositoriesPath = cfg.RepositoriesFile
	}

	deps, err := conda.ParseRecipe(recipePath, depsVersionTagFlag)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Runtime, "parsing conda recipe",
			"Check that the recipe path is correct (--recipe or conda_recipe in config)")
	}

	manifest := conda.BuildManifest(deps, depsVersionTagFlag, depsDistroFlag)
	if err := writeManifest(manifest); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s (%d dependencies)", envOutputFile, len(manifest.Dependencies)))

	repos, err := config.LoadRepositories(repositoriesPath)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Configuration, "loading repositories mapping",
			"Check the repositories file path (--repositories or repositories_file in config)")
	}

	urls := conda.RepoURLs(repos, deps.QiimePackages)
	if err := os.WriteFile(repoURLsOutputFile, []byte(strings.Join(urls, "\n")+"\n"), 0o644); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime, "writing repo URLs")
	}
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s (%d QIIME2 packages)", repoURLsOutputFile, len(urls)))

	return nil
}

func writeManifest(manifest conda.Manifest) error {
	f, err := os.Create(envOutputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", envOutputFile, err)
	}
	defer f.Close()

	if err := manifest.Encode(f); err != nil {
		return err
	}
	return f.Close()
}
