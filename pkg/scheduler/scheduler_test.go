package scheduler

import (
	"context"
	"log/slog"
	"testing"

	"github.com/opsgraph/opsgraph/pkg/engine"
	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExecutor struct {
	calls int
	err   error
}

func (c *countingExecutor) Execute(_ context.Context) (*models.ExecutionRecord, error) {
	c.calls++

	if c.err != nil {
		return nil, c.err
	}

	return &models.ExecutionRecord{ExecutionID: "exec-test"}, nil
}

func TestStart_RejectsBadExpression(t *testing.T) {
	s := NewScheduler(&countingExecutor{}, slog.Default())

	err := s.Start(context.Background(), "not a cron line")
	assert.Error(t, err)
}

func TestFire_InvokesExecutor(t *testing.T) {
	executor := &countingExecutor{}
	s := NewScheduler(executor, slog.Default())

	s.fire(context.Background())
	assert.Equal(t, 1, executor.calls)
}

func TestFire_ToleratesEngineRefusals(t *testing.T) {
	for _, err := range []error{engine.ErrExecutionInProgress, engine.ErrNoActiveFlows} {
		executor := &countingExecutor{err: err}
		s := NewScheduler(executor, slog.Default())

		require.NotPanics(t, func() { s.fire(context.Background()) })
		assert.Equal(t, 1, executor.calls)
	}
}
