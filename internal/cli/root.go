package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/bokulich-lab/relkit/internal/config"
	"github.com/bokulich-lab/relkit/internal/errors"
	"github.com/bokulich-lab/relkit/internal/git"
	"github.com/spf13/cobra"
)

var (
	configFlag string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "relkit",
	Short: "Release automation for QIIME2 plugin repositories",
	Long: `relkit bundles the release chores shared by the QIIME2 plugin
repositories: resolving which previous tag a release should be diffed
against, generating the categorized changelog for that range, looking up
the latest dev/stable tags of a repository, generating conda environment
manifests from a recipe, and managing release milestones across repos.

Commands are one-shot pipeline steps: each reads version-control or API
metadata, writes its outputs (files, stdout, and the GitHub Actions
output channels when available), and exits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			git.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to the project config file (default: .relkit.yml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute runs the root command, printing structured errors to stderr.
// The returned error, if any, carries the process exit code via ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return err
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
	} else {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case errors.Argument:
			return ExitInvalidArguments
		case errors.Configuration:
			return ExitBadConfiguration
		}
	}
	return ExitFailure
}

// loadConfig loads the CLI configuration honoring the --config flag.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, errors.Wrap(err, errors.Configuration,
			"Check the YAML syntax of the config file passed via --config or .relkit.yml")
	}
	return cfg, nil
}
