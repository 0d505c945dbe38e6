package cli

import (
	"fmt"
	"strings"

	"github.com/bokulich-lab/relkit/internal/errors"
	"github.com/bokulich-lab/relkit/internal/ghaction"
	"github.com/bokulich-lab/relkit/internal/git"
	"github.com/bokulich-lab/relkit/internal/resolver"
	"github.com/spf13/cobra"
)

var previousTagRepoFlag string

var previousTagCmd = &cobra.Command{
	Use:   "previous-tag <release-tag> [previous-tag]",
	Short: "Resolve the previous tag to diff a release against",
	Long: `Resolve the tag a release should be diffed against.

Dev releases (tags with a .devN suffix) are diffed against the newest
other dev tag, unless the stable lineage has moved past it, in which
case the newest stable tag wins; the tie is decided by commit ancestry,
not version numbers, so a dev tag stranded on a stale branch never
becomes the diff base. Stable releases are diffed against the newest
older stable tag, ignoring dev tags entirely. When no suitable tag
exists the repository's root commit is used.

Passing an explicit previous tag skips resolution and echoes it back,
which keeps workflow definitions overridable.

The result is printed to stdout and, on GitHub Actions, exported as the
step output "previous-tag".

Examples:
  relkit previous-tag 2024.10.0
  relkit previous-tag 2024.10.0.dev1
  relkit previous-tag 2024.10.0 2024.5.0   # explicit override`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreviousTag(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(previousTagCmd)
	previousTagCmd.Flags().StringVar(&previousTagRepoFlag, "repo", "", "Path to the git repository (default: current directory)")
}

func runPreviousTag(cmd *cobra.Command, args []string) error {
	releaseTag := strings.TrimSpace(args[0])
	if releaseTag == "" {
		return errors.MissingReleaseTag("previous-tag")
	}

	var override string
	if len(args) == 2 {
		override = args[1]
	}

	repo, err := git.Open(previousTagRepoFlag)
	if err != nil {
		return errors.NotARepository(err)
	}

	previous, err := resolver.Previous(repo, releaseTag, override)
	if err != nil {
		return errors.Wrap(err, errors.Repository)
	}

	fmt.Fprintln(cmd.OutOrStdout(), previous)

	if err := ghaction.SetOutput("previous-tag", previous); err != nil {
		return errors.Wrap(err, errors.Runtime)
	}
	return nil
}
