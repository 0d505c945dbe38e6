package cli

// Exit codes for the relkit CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime or repository failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitBadConfiguration indicates missing or invalid configuration
	ExitBadConfiguration = 4
)

// ExitError carries an explicit process exit code through cobra's error
// return path.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return ""
}

// NewExitError creates an error that maps to the given exit code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}
