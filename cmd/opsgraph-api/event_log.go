package main

import (
	"context"

	"github.com/opsgraph/opsgraph/pkg/eventbus"
	"github.com/opsgraph/opsgraph/pkg/events"
)

// subscribeEventLog mirrors execution lifecycle events into the log, so runs
// fired by the scheduler leave a trace even with no client attached.
func (a *API) subscribeEventLog(ctx context.Context) error {
	logger := a.logger.With("module", "events")

	handlers := map[events.EventType]eventbus.EventHandler{
		events.ExecutionStartedEvent: func(ctx context.Context, event any) error {
			started, ok := event.(*events.ExecutionStarted)
			if !ok {
				return nil
			}

			logger.InfoContext(ctx, "Execution started",
				"execution_id", started.ExecutionID,
				"nodes", started.NodeCount,
				"edges", started.EdgeCount,
				"active_flows", started.ActiveFlows)

			return nil
		},
		events.FlowCompletedEvent: func(ctx context.Context, event any) error {
			completed, ok := event.(*events.FlowCompleted)
			if !ok {
				return nil
			}

			logger.InfoContext(ctx, "Flow completed",
				"execution_id", completed.ExecutionID,
				"flow", completed.FlowName,
				"status", completed.Status)

			return nil
		},
		events.ExecutionCompletedEvent: func(ctx context.Context, event any) error {
			completed, ok := event.(*events.ExecutionCompleted)
			if !ok {
				return nil
			}

			logger.InfoContext(ctx, "Execution completed",
				"execution_id", completed.ExecutionID,
				"results", completed.ResultCount,
				"warnings", completed.Warnings,
				"errors", completed.Errors,
				"duration_ms", completed.DurationMs)

			return nil
		},
		events.ExecutionFailedEvent: func(ctx context.Context, event any) error {
			failed, ok := event.(*events.ExecutionFailed)
			if !ok {
				return nil
			}

			logger.WarnContext(ctx, "Execution failed",
				"execution_id", failed.ExecutionID,
				"error", failed.Error,
				"duration_ms", failed.DurationMs)

			return nil
		},
	}

	for eventType, handler := range handlers {
		if err := a.eventBus.Handle(eventType, handler); err != nil {
			return err
		}
	}

	return a.eventBus.Subscribe(ctx)
}
