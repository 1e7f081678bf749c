// Package engine runs execution requests: it validates the graph, matches the
// flow catalogue against it, and drives each active flow in order with
// per-flow failure isolation.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/opsgraph/opsgraph/pkg/eventbus"
	"github.com/opsgraph/opsgraph/pkg/events"
	"github.com/opsgraph/opsgraph/pkg/flows"
	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/otelhelper"
)

// State is the orchestrator's phase within one execution request.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateAborted    State = "aborted"
)

// GraphSource supplies the immutable graph snapshot an execution runs
// against. The graph store implements it.
type GraphSource interface {
	Snapshot() *models.Graph
}

// ResultsStore receives the ordered result list after each run. Optional.
type ResultsStore interface {
	SaveResults(ctx context.Context, record *models.ExecutionRecord) error
}

// Engine is the execution orchestrator. One request runs at a time; Execute
// rejects re-entrant calls with ErrExecutionInProgress. Flows run strictly in
// catalogue order against the snapshot taken at validation time, so edits made
// mid-execution are invisible to the running request.
type Engine struct {
	source    GraphSource
	service   flows.Service
	results   ResultsStore
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	running bool
}

// Option configures optional engine collaborators.
type Option func(*Engine)

func WithResultsStore(store ResultsStore) Option {
	return func(e *Engine) {
		e.results = store
	}
}

func WithEventPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

func NewEngine(source GraphSource, service flows.Service, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		source:  source,
		service: service,
		tracer:  noop.NewTracerProvider().Tracer("opsgraph"),
		logger:  logger.With("module", "engine"),
		state:   StateIdle,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// State returns the orchestrator's current phase. It passes through
// validating and running while a request executes and returns to idle once
// the request has handed off its results or failed.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

func (e *Engine) setState(state State) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

// Execute runs one execution request against the current graph snapshot.
// It returns the ordered result list, or an error when the request never
// produced results: validation failure, no active flows, or a concurrent run.
func (e *Engine) Execute(ctx context.Context) (*models.ExecutionRecord, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()

		return nil, ErrExecutionInProgress
	}

	e.running = true
	e.state = StateValidating
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.state = StateIdle
		e.mu.Unlock()
	}()

	executionID := "exec-" + strings.Split(uuid.New().String(), "-")[0]
	started := time.Now()
	logger := e.logger.With("execution_id", executionID)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.execute",
		attribute.String(otelhelper.ExecutionIDKey, executionID))
	defer span.End()

	snapshot := e.source.Snapshot()

	if err := e.validate(snapshot); err != nil {
		e.setState(StateAborted)
		logger.Warn("Execution aborted by validation", "error", err)
		otelhelper.SetError(span, err)
		e.publishFailed(ctx, executionID, started, err)

		return nil, err
	}

	active := flows.Active(snapshot)

	span.SetAttributes(
		attribute.Int(otelhelper.NodeCountKey, len(snapshot.Nodes)),
		attribute.Int(otelhelper.EdgeCountKey, len(snapshot.Edges)),
	)

	e.publish(ctx, executionID, events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, executionID),
		NodeCount:   len(snapshot.Nodes),
		EdgeCount:   len(snapshot.Edges),
		ActiveFlows: len(active),
	})

	e.setState(StateRunning)

	executionContext := &models.ExecutionContext{ID: executionID}
	results := make([]models.FlowResult, 0)

	for _, entry := range active {
		if ctx.Err() != nil {
			logger.Warn("Execution interrupted", "flow", entry.Flow.Name(), "error", ctx.Err())

			break
		}

		results = append(results, e.runFlow(ctx, logger, entry, snapshot, executionContext)...)
	}

	if len(results) == 0 {
		e.setState(StateCompleted)
		logger.Info("Execution produced no results")
		e.publishFailed(ctx, executionID, started, ErrNoActiveFlows)

		return nil, ErrNoActiveFlows
	}

	record := &models.ExecutionRecord{
		ExecutionID: executionID,
		Results:     results,
		CreatedAt:   time.Now(),
	}

	if e.results != nil {
		if err := e.results.SaveResults(ctx, record); err != nil {
			// Result storage is best-effort; the caller still gets the list.
			logger.Error("Failed to persist execution results", "error", err)
		}
	}

	warnings, errored := tally(results)

	e.publish(ctx, executionID, events.ExecutionCompleted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionCompletedEvent, executionID),
		DurationMs:  time.Since(started).Milliseconds(),
		ResultCount: len(results),
		Warnings:    warnings,
		Errors:      errored,
	})

	e.setState(StateCompleted)
	logger.Info("Execution completed",
		"results", len(results), "warnings", warnings, "errors", errored,
		"duration", time.Since(started))

	return record, nil
}

func (e *Engine) runFlow(ctx context.Context, logger *slog.Logger, entry flows.ActiveFlow, snapshot *models.Graph, executionContext *models.ExecutionContext) []models.FlowResult {
	flowCtx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.flow",
		attribute.String(otelhelper.ExecutionIDKey, executionContext.ID),
		attribute.String(otelhelper.FlowNameKey, entry.Flow.Name()))
	defer span.End()

	results := entry.Flow.Run(flowCtx, e.service, snapshot, entry.Participants, executionContext)

	for _, result := range results {
		span.SetAttributes(attribute.String(otelhelper.FlowStatusKey, string(result.Status)))
		logger.Info("Flow completed",
			"flow", entry.Flow.Name(), "status", result.Status)

		e.publish(flowCtx, executionContext.ID, events.FlowCompleted{
			BaseEvent: events.NewBaseEvent(events.FlowCompletedEvent, executionContext.ID),
			FlowName:  result.FlowName,
			Status:    result.Status,
			Summary:   result.Summary,
		})
	}

	return results
}

// validate checks the preflight preconditions: any Server node must carry an
// API endpoint and any Server Logs node must carry log data. A violation
// aborts the request before any external call.
func (e *Engine) validate(g *models.Graph) error {
	for _, node := range g.Nodes {
		switch node.Role {
		case models.RoleServer:
			if node.Config.APIEndpoint == "" {
				return &ValidationError{NodeID: node.ID, Role: node.Role, Field: "api_endpoint"}
			}
		case models.RoleServerLogs:
			if node.Config.LogData == "" {
				return &ValidationError{NodeID: node.ID, Role: node.Role, Field: "log_data"}
			}
		}
	}

	return nil
}

func (e *Engine) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.Error("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func (e *Engine) publishFailed(ctx context.Context, executionID string, started time.Time, cause error) {
	e.publish(ctx, executionID, events.ExecutionFailed{
		BaseEvent:  events.NewBaseEvent(events.ExecutionFailedEvent, executionID),
		DurationMs: time.Since(started).Milliseconds(),
		Error:      cause.Error(),
	})
}

func tally(results []models.FlowResult) (warnings, errored int) {
	for _, result := range results {
		switch result.Status {
		case models.StatusWarning:
			warnings++
		case models.StatusError:
			errored++
		case models.StatusSuccess:
		}
	}

	return warnings, errored
}
