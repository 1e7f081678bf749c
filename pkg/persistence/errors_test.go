package persistence_test

import (
	"errors"
	"testing"

	"github.com/opsgraph/opsgraph/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestGraphError_WrapsSentinel(t *testing.T) {
	err := persistence.NewGraphError("Load", persistence.ErrGraphNotFound)

	assert.ErrorIs(t, err, persistence.ErrGraphNotFound)
	assert.True(t, persistence.IsGraphNotFound(err))
	assert.Contains(t, err.Error(), "Load operation failed")
}

func TestResultsError_IncludesExecutionID(t *testing.T) {
	underlying := errors.New("disk full")
	err := persistence.NewResultsError("Save", "exec-12345678", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "exec-12345678")
	assert.False(t, persistence.IsResultsNotFound(err))
}

func TestCorruptDataChain(t *testing.T) {
	err := persistence.NewGraphError("Load", persistence.ErrCorruptData)

	assert.ErrorIs(t, err, persistence.ErrCorruptData)
	assert.False(t, persistence.IsGraphNotFound(err))
}
