// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task or command).
	UserError = 1

	// ConfigError indicates invalid configuration or an unusable base URL.
	ConfigError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)
