package errors

import "fmt"

// Common error messages for the relkit CLI.
// These templates ensure consistent, actionable error messages.

// MissingReleaseTag creates an error for a missing release tag argument.
func MissingReleaseTag(command string) *CLIError {
	return NewArgumentErrorWithUsage(
		"release tag is required",
		fmt.Sprintf("relkit %s <release-tag> [previous-tag]", command),
		"Provide the tag being released, e.g. 2024.10.0 or 2024.10.0.dev0",
	)
}

// MissingGithubToken creates an error for API commands that need auth.
func MissingGithubToken() *CLIError {
	return NewConfigError(
		"GITHUB_TOKEN is not set",
		"Export a token with repo scope: export GITHUB_TOKEN=<token>",
		"On GitHub Actions, pass secrets.GITHUB_TOKEN into the step environment",
	)
}

// NotARepository creates an error for git commands run outside a repository.
func NotARepository(err error) *CLIError {
	return Wrap(err, Repository,
		"Run relkit from inside the plugin repository being released",
		"On GitHub Actions, make sure actions/checkout ran with fetch-depth: 0 so tags are available",
	)
}

// InvalidDueDate creates an error for a malformed milestone due date.
func InvalidDueDate(provided string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid due date %q", provided),
		"Use the format YYYYMMDDhhmmss, e.g. 20250630123000",
	)
}
