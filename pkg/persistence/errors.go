// Package persistence provides standardized error types for storage operations.
package persistence

import "errors"

var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrExecutionNotFound indicates an execution record was not found.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrFileNotFound indicates a stored file was not found.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileForbidden indicates a file belongs to a different owner.
	ErrFileForbidden = errors.New("file access forbidden")
)

// IsWorkflowNotFound checks if an error indicates a missing workflow.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsExecutionNotFound checks if an error indicates a missing execution.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}

// IsFileForbidden checks if an error indicates cross-owner file access.
func IsFileForbidden(err error) bool {
	return errors.Is(err, ErrFileForbidden)
}
