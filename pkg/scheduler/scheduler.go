// Package scheduler runs executions on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/opsgraph/opsgraph/pkg/engine"
	"github.com/opsgraph/opsgraph/pkg/models"
)

// Executor runs one execution request. The engine implements it.
type Executor interface {
	Execute(ctx context.Context) (*models.ExecutionRecord, error)
}

// Scheduler triggers executions on a fixed cron expression. Overlapping fires
// are harmless: the engine rejects re-entrant requests and the scheduler logs
// and moves on.
type Scheduler struct {
	cron     *cron.Cron
	executor Executor
	logger   *slog.Logger
}

func NewScheduler(executor Executor, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		executor: executor,
		logger:   logger.With("module", "scheduler"),
	}
}

// Start registers the schedule and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context, expression string) error {
	_, err := s.cron.AddFunc(expression, func() {
		s.fire(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", "schedule", expression)

	return nil
}

func (s *Scheduler) fire(ctx context.Context) {
	record, err := s.executor.Execute(ctx)

	switch {
	case errors.Is(err, engine.ErrExecutionInProgress):
		s.logger.Warn("Skipping scheduled execution, previous run still active")
	case errors.Is(err, engine.ErrNoActiveFlows), errors.Is(err, engine.ErrValidation):
		s.logger.Info("Scheduled execution produced no results", "reason", err)
	case err != nil:
		s.logger.Error("Scheduled execution failed", "error", err)
	default:
		s.logger.Info("Scheduled execution completed",
			"execution_id", record.ExecutionID, "results", len(record.Results))
	}
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}
