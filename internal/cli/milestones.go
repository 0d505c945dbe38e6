package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bokulich-lab/relkit/internal/config"
	"github.com/bokulich-lab/relkit/internal/errors"
	"github.com/bokulich-lab/relkit/internal/github"
	"github.com/bokulich-lab/relkit/internal/output"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	milestonesNameFlag   string
	milestonesReposFlag  string
	milestonesDueFlag    string
	milestonesDescFlag   string
	milestonesEditFlag   bool
	milestonesCloseFlag  bool
	milestonesDryRunFlag bool
)

// milestoneConcurrency bounds the parallel API calls when fanning out
// over many repositories.
const milestoneConcurrency = 4

// dueDateLayout is the compact input format carried over from the old
// release scripts (YYYYMMDDhhmmss).
const dueDateLayout = "20060102150405"

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Create, edit, or close a milestone across repositories",
	Long: `Create, edit, or close a release milestone across a list of plugin
repositories.

Without --edit or --close a new milestone is created in every target
repository. With --edit the existing milestone with the given title is
updated (due date, description); with --close it is closed. Repositories
are processed concurrently and each outcome is reported on its own line.

Requires GITHUB_TOKEN with repo scope.

Examples:
  relkit milestones --name 2025.4 --repos bokulich-lab/q2-fondue,bokulich-lab/q2-moshpit --due 20250430120000
  relkit milestones --name 2025.4 --repos bokulich-lab/q2-fondue --close`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMilestones(cmd)
	},
}

func init() {
	rootCmd.AddCommand(milestonesCmd)
	milestonesCmd.Flags().StringVar(&milestonesNameFlag, "name", "", "Milestone title")
	milestonesCmd.Flags().StringVar(&milestonesReposFlag, "repos", "", "Comma-separated list of owner/repo targets")
	milestonesCmd.Flags().StringVar(&milestonesDueFlag, "due", "", "Due date (format: YYYYMMDDhhmmss)")
	milestonesCmd.Flags().StringVar(&milestonesDescFlag, "desc", "", "Milestone description")
	milestonesCmd.Flags().BoolVar(&milestonesEditFlag, "edit", false, "Edit the existing milestone instead of creating one")
	milestonesCmd.Flags().BoolVar(&milestonesCloseFlag, "close", false, "Close the existing milestone")
	milestonesCmd.Flags().BoolVar(&milestonesDryRunFlag, "dry-run", false, "Log planned API calls without performing them")
	milestonesCmd.MarkFlagRequired("name")
	milestonesCmd.MarkFlagRequired("repos")
}

func runMilestones(cmd *cobra.Command) error {
	token := config.GithubToken()
	if token == "" && !milestonesDryRunFlag {
		return errors.MissingGithubToken()
	}

	dueOn, err := parseDueDate(milestonesDueFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repos := splitRepos(milestonesReposFlag)
	if len(repos) == 0 {
		return errors.NewArgumentError("no target repositories given",
			"Pass --repos as a comma-separated list of owner/repo entries")
	}

	client := github.NewClient(cfg.GithubAPIURL, token)

	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(milestoneConcurrency)

	results := make([]error, len(repos))
	for i, repo := range repos {
		group.Go(func() error {
			results[i] = applyMilestone(ctx, cmd, client, repo, dueOn)
			return nil
		})
	}
	// Worker errors are collected per-repo; the group only propagates
	// context cancellation.
	_ = group.Wait()

	failed := 0
	for i, repo := range repos {
		output.PrintRepoResult(cmd.OutOrStdout(), repo, results[i])
		if results[i] != nil {
			failed++
		}
	}
	if failed > 0 {
		return errors.NewRuntimeError(fmt.Sprintf("milestone update failed for %d of %d repositories", failed, len(repos)))
	}
	return nil
}

// applyMilestone performs the create/edit/close action for one repository.
func applyMilestone(ctx context.Context, cmd *cobra.Command, client *github.Client, repo, dueOn string) error {
	if !milestonesEditFlag && !milestonesCloseFlag {
		req := github.MilestoneRequest{Title: milestonesNameFlag, DueOn: dueOn, Description: milestonesDescFlag}
		if milestonesDryRunFlag {
			output.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("[dry-run] would create milestone %q in %s", milestonesNameFlag, repo))
			return nil
		}
		_, err := client.CreateMilestone(ctx, repo, req)
		return err
	}

	milestone, err := findMilestone(ctx, client, repo, milestonesNameFlag)
	if err != nil {
		return err
	}

	req := github.MilestoneRequest{}
	if milestonesEditFlag {
		req.DueOn = dueOn
		req.Description = milestonesDescFlag
	}
	if milestonesCloseFlag {
		req.State = "closed"
	}

	if milestonesDryRunFlag {
		output.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("[dry-run] would update milestone %q (#%d) in %s", milestonesNameFlag, milestone.Number, repo))
		return nil
	}
	_, err = client.UpdateMilestone(ctx, repo, milestone.Number, req)
	return err
}

// findMilestone locates an open milestone by title.
func findMilestone(ctx context.Context, client *github.Client, repo, title string) (*github.Milestone, error) {
	milestones, err := client.ListMilestones(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("milestone %q not found", title)
}

// parseDueDate converts the compact YYYYMMDDhhmmss input format to the
// RFC3339 timestamp the API expects. An empty input stays empty.
func parseDueDate(due string) (string, error) {
	if due == "" {
		return "", nil
	}
	t, err := time.Parse(dueDateLayout, due)
	if err != nil {
		return "", errors.InvalidDueDate(due)
	}
	return t.UTC().Format(time.RFC3339), nil
}

// splitRepos parses the --repos flag, dropping empty entries.
func splitRepos(s string) []string {
	var repos []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			repos = append(repos, part)
		}
	}
	return repos
}
