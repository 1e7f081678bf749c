// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrGraphNotFound indicates no graph has been saved yet.
	ErrGraphNotFound = errors.New("graph not found")

	// ErrResultsNotFound indicates no execution results have been saved yet.
	ErrResultsNotFound = errors.New("execution results not found")

	// ErrCorruptData indicates stored data could not be decoded.
	ErrCorruptData = errors.New("corrupt persisted data")
)

// GraphError wraps graph storage errors with additional context.
type GraphError struct {
	Op  string // Operation being performed (e.g., "Load", "Save")
	Err error  // Underlying error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("%s operation failed for graph: %v", e.Op, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

func (e *GraphError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewGraphError creates a new graph error with context.
func NewGraphError(op string, err error) *GraphError {
	return &GraphError{Op: op, Err: err}
}

// ResultsError wraps execution-result storage errors with additional context.
type ResultsError struct {
	Op          string // Operation being performed
	ExecutionID string // Execution ID if applicable
	Err         error  // Underlying error
}

func (e *ResultsError) Error() string {
	if e.ExecutionID != "" {
		return fmt.Sprintf("%s operation failed for execution %s: %v", e.Op, e.ExecutionID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for execution results: %v", e.Op, e.Err)
}

func (e *ResultsError) Unwrap() error {
	return e.Err
}

func (e *ResultsError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewResultsError creates a new results error with context.
func NewResultsError(op, executionID string, err error) *ResultsError {
	return &ResultsError{Op: op, ExecutionID: executionID, Err: err}
}

// IsGraphNotFound checks if an error indicates no graph has been saved.
func IsGraphNotFound(err error) bool {
	return errors.Is(err, ErrGraphNotFound)
}

// IsResultsNotFound checks if an error indicates no results have been saved.
func IsResultsNotFound(err error) bool {
	return errors.Is(err, ErrResultsNotFound)
}
