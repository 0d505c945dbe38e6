package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/bokulich-lab/relkit/internal/changelog"
	"github.com/bokulich-lab/relkit/internal/errors"
	"github.com/bokulich-lab/relkit/internal/ghaction"
	"github.com/bokulich-lab/relkit/internal/git"
	"github.com/bokulich-lab/relkit/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	changelogRepoFlag    string
	changelogRepoURLFlag string
	changelogOutputFlag  string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <release-tag> [previous-tag]",
	Short: "Generate the categorized changelog for a release",
	Long: `Generate the Markdown changelog for the commits between a release tag
and its predecessor.

When no previous tag is given it is resolved the same way the
previous-tag command resolves it. Commit subjects are grouped by their
prefix convention (ENH/IMP/ADD, BUG/FIX, MAINT/CI/TEST, DOC; anything
else lands under "Other changes"); empty categories are omitted. Each
bullet links the commit hash against the repository URL.

The rendered document is written to changelog.md (or --output) and the
same bytes go to stdout and, on GitHub Actions, to the step summary and
the "changelog" step output. An empty commit range produces a changelog
with a heading and no sections, which is a valid result.

Examples:
  relkit changelog 2024.10.0
  relkit changelog 2024.10.0.dev1 2024.10.0.dev0
  relkit changelog 2024.10.0 --repo-url https://github.com/bokulich-lab/q2-fondue`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelog(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.Flags().StringVar(&changelogRepoFlag, "repo", "", "Path to the git repository (default: current directory)")
	changelogCmd.Flags().StringVar(&changelogRepoURLFlag, "repo-url", "", "Repository browse URL used for commit links (default: repo_url from config)")
	changelogCmd.Flags().StringVar(&changelogOutputFlag, "output", "", "Output file path (default: changelog_path from config)")
}

func runChangelog(cmd *cobra.Command, args []string) error {
	releaseTag := strings.TrimSpace(args[0])
	if releaseTag == "" {
		return errors.MissingReleaseTag("changelog")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repoURL := changelogRepoURLFlag
	if repoURL == "" {
		repoURL = cfg.RepoURL
	}
	outputPath := changelogOutputFlag
	if outputPath == "" {
		outputPath = cfg.ChangelogPath
	}

	repo, err := git.Open(changelogRepoFlag)
	if err != nil {
		return errors.NotARepository(err)
	}

	var previous string
	if len(args) == 2 {
		previous = args[1]
	}
	previous, err = resolver.Previous(repo, releaseTag, previous)
	if err != nil {
		return errors.Wrap(err, errors.Repository)
	}

	records, err := repo.CommitsBetween(previous, releaseTag)
	if err != nil {
		return errors.Wrap(err, errors.Repository)
	}

	content := changelog.Build(releaseTag, repoURL, toCommits(records))

	// The file, stdout, and the step channels all receive the same bytes.
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime, "writing changelog")
	}
	fmt.Fprint(cmd.OutOrStdout(), content)

	if err := ghaction.AppendSummary(content); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	if err := ghaction.SetOutput("changelog", content); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	return nil
}

// toCommits converts git log records into changelog entries.
func toCommits(records []git.CommitRecord) []changelog.Commit {
	commits := make([]changelog.Commit, len(records))
	for i, r := range records {
		commits[i] = changelog.Commit{
			Hash:        r.Hash,
			AuthorName:  r.AuthorName,
			AuthorEmail: r.AuthorEmail,
			Subject:     r.Subject,
		}
	}
	return commits
}
