package engine

import (
	"errors"
	"fmt"

	"github.com/opsgraph/opsgraph/pkg/models"
)

var (
	// ErrExecutionInProgress indicates a new execution request arrived while
	// one was already running.
	ErrExecutionInProgress = errors.New("execution already in progress")

	// ErrNoActiveFlows indicates the graph has no connected recognized
	// pattern; the request ends with no results.
	ErrNoActiveFlows = errors.New("no valid connections between nodes")

	// ErrValidation is the sentinel all preflight validation errors wrap.
	ErrValidation = errors.New("graph validation failed")
)

// ValidationError reports a node whose required configuration is missing.
// It aborts the whole request before any external call is made.
type ValidationError struct {
	NodeID string
	Role   models.NodeRole
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for node %s (%s): missing %s", e.NodeID, e.Role, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
