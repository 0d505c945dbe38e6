// Package ghaction writes values to the GitHub Actions communication
// files ($GITHUB_ENV, $GITHUB_OUTPUT, $GITHUB_STEP_SUMMARY). Outside of
// Actions the files are absent and every writer is a silent no-op, so
// commands behave the same locally and on a runner; callers remain
// responsible for echoing values to stdout.
package ghaction

import (
	"fmt"
	"os"
	"strings"
)

// multilineDelimiter fences multi-line values in the output file, per
// the workflow-commands file format.
const multilineDelimiter = "RELKIT_EOF"

// InActions reports whether the process is running on a GitHub Actions
// runner.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// SetEnv appends name=value pairs to the workflow environment file so
// later steps in the same job see them as environment variables.
func SetEnv(vars map[string]string) error {
	path := os.Getenv("GITHUB_ENV")
	if path == "" {
		return nil
	}

	var sb strings.Builder
	for name, value := range vars {
		line, err := formatAssignment(name, value)
		if err != nil {
			return err
		}
		sb.WriteString(line)
	}
	return appendFile(path, sb.String())
}

// SetOutput appends a step output so later steps can reference it as
// steps.<id>.outputs.<name>.
func SetOutput(name, value string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	line, err := formatAssignment(name, value)
	if err != nil {
		return err
	}
	return appendFile(path, line)
}

// AppendSummary appends Markdown to the job's step summary panel.
func AppendSummary(content string) error {
	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return appendFile(path, content)
}

// formatAssignment renders one name/value pair in the workflow-commands
// file format, using a heredoc fence for multi-line values.
func formatAssignment(name, value string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty variable name")
	}
	if !strings.Contains(value, "\n") {
		return fmt.Sprintf("%s=%s\n", name, value), nil
	}
	if strings.Contains(value, multilineDelimiter) {
		return "", fmt.Errorf("value of %s contains the reserved delimiter %s", name, multilineDelimiter)
	}
	if !strings.HasSuffix(value, "\n") {
		value += "\n"
	}
	return fmt.Sprintf("%s<<%s\n%s%s\n", name, multilineDelimiter, value, multilineDelimiter), nil
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
