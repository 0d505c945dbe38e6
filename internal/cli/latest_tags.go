package cli

import (
	"fmt"
	"time"

	"github.com/bokulich-lab/relkit/internal/config"
	"github.com/bokulich-lab/relkit/internal/errors"
	"github.com/bokulich-lab/relkit/internal/ghaction"
	"github.com/bokulich-lab/relkit/internal/github"
	"github.com/bokulich-lab/relkit/internal/output"
	"github.com/bokulich-lab/relkit/internal/version"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var latestTagsCmd = &cobra.Command{
	Use:   "latest-tags <owner/repo>",
	Short: "Look up the latest dev and stable tags of a repository",
	Long: `Look up the newest dev (.devN) and stable tags of a repository via the
GitHub API.

The GitHub tag listing is newest-first and that order is preserved: the
first tag of each lineage wins. Results are printed as
latest-dev-tag=... / latest-stable-tag=... lines; on GitHub Actions they
are additionally exported as LATEST_DEV_TAG / LATEST_STABLE_TAG job
environment variables and as step outputs.

GITHUB_TOKEN is used when set; public repositories work without it at a
lower rate limit.

Example:
  relkit latest-tags qiime2/qiime2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLatestTags(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(latestTagsCmd)
}

func runLatestTags(cmd *cobra.Command, repo string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := github.NewClient(cfg.GithubAPIURL, config.GithubToken())

	stop := startSpinner(fmt.Sprintf("Fetching tags of %s", repo))
	tags, err := client.ListTags(cmd.Context(), repo)
	stop()
	if err != nil {
		return errors.Wrap(err, errors.Runtime,
			"Check the owner/repo spelling and your network connectivity",
			"Set GITHUB_TOKEN if the repository is private or the rate limit is exhausted")
	}

	latestDev, latestStable := splitLatest(tags)

	fmt.Fprintf(cmd.OutOrStdout(), "latest-dev-tag=%s\n", latestDev)
	fmt.Fprintf(cmd.OutOrStdout(), "latest-stable-tag=%s\n", latestStable)

	envVars := map[string]string{}
	if latestDev != "" {
		envVars["LATEST_DEV_TAG"] = latestDev
	}
	if latestStable != "" {
		envVars["LATEST_STABLE_TAG"] = latestStable
	}
	if err := ghaction.SetEnv(envVars); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	if err := ghaction.SetOutput("latest-dev-tag", latestDev); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	if err := ghaction.SetOutput("latest-stable-tag", latestStable); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	return nil
}

// splitLatest returns the first dev and first stable tag in listing
// order (the API lists newest first).
func splitLatest(tags []github.Tag) (latestDev, latestStable string) {
	for _, t := range tags {
		if version.Parse(t.Name).IsDev() {
			if latestDev == "" {
				latestDev = t.Name
			}
		} else if latestStable == "" {
			latestStable = t.Name
		}
		if latestDev != "" && latestStable != "" {
			break
		}
	}
	return latestDev, latestStable
}

// startSpinner shows a spinner while a network call is in flight when
// stdout is a terminal. The returned function stops it.
func startSpinner(message string) func() {
	if !output.IsTerminal() {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
