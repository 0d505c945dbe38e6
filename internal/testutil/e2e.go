// Package testutil provides test utilities and helpers for relkit tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// relkitBinaryPath caches the built relkit binary path.
	relkitBinaryPath string
	relkitBuildOnce  sync.Once
	relkitBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing. Each test
// gets its own working directory and a sanitized environment, so runner
// state (GITHUB_* variables, tokens) never leaks into assertions.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	extra   map[string]string
}

// CommandResult captures the result of running a relkit command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment. The relkit binary is
// built once per test session and shared across environments.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{
		t:       t,
		tempDir: t.TempDir(),
		extra:   make(map[string]string),
	}
	env.buildRelkit()
	return env
}

// WorkDir returns the working directory commands run in.
func (e *E2EEnv) WorkDir() string {
	return e.tempDir
}

// Setenv sets an environment variable for commands run through this
// environment.
func (e *E2EEnv) Setenv(key, value string) {
	e.extra[key] = value
}

// WriteFile writes a file relative to the working directory.
func (e *E2EEnv) WriteFile(name, content string) {
	e.t.Helper()

	path := filepath.Join(e.tempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", name, err)
	}
}

// ReadFile reads a file relative to the working directory.
func (e *E2EEnv) ReadFile(name string) string {
	e.t.Helper()

	content, err := os.ReadFile(filepath.Join(e.tempDir, name))
	if err != nil {
		e.t.Fatalf("reading %s: %v", name, err)
	}
	return string(content)
}

func (e *E2EEnv) buildRelkit() {
	e.t.Helper()

	relkitBuildOnce.Do(func() {
		relkitBinaryPath, relkitBuildErr = buildRelkit()
	})
	if relkitBuildErr != nil {
		e.t.Fatalf("building relkit: %v", relkitBuildErr)
	}
}

func buildRelkit() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "relkit-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "relkit")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/relkit")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building relkit: %w\nOutput: %s", err, output)
	}
	return binaryPath, nil
}

// Run executes a relkit command in the isolated environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(relkitBinaryPath, args...)
	cmd.Dir = e.tempDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

// buildIsolatedEnv keeps PATH and locale but strips all GITHUB_*
// variables, so commands behave like a local run unless a test opts in
// via Setenv.
func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"HOME=" + e.tempDir,
	}

	safeVars := []string{"PATH", "TERM", "LANG", "LC_ALL", "TMPDIR"}
	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	for key, val := range e.extra {
		env = append(env, key+"="+val)
	}
	return env
}
