// Package emoji provides the status symbols printed by CLI commands.
package emoji

const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation or rejected row.
	Error = "✗"

	// Stop marks a shutdown in progress.
	Stop = "■"

	// Warning marks a non-fatal problem.
	Warning = "!"

	// Info marks neutral progress output.
	Info = "→"

	// Rocket marks a server coming up.
	Rocket = "🚀"
)
