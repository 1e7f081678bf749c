// Package events defines the event types published over the execution
// lifecycle: one started event per run, one flow.completed per result, and a
// terminal completed or failed event.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsgraph/opsgraph/pkg/models"
)

type EventType string

const Topic = "opsgraph.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	FlowCompletedEvent      EventType = "execution.flow.completed"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id"`
}

type ExecutionStarted struct {
	BaseEvent

	NodeCount   int `json:"node_count"`
	EdgeCount   int `json:"edge_count"`
	ActiveFlows int `json:"active_flows"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type FlowCompleted struct {
	BaseEvent

	FlowName string              `json:"flow_name"`
	Status   models.ResultStatus `json:"status"`
	Summary  string              `json:"summary"`
}

func (e FlowCompleted) GetType() EventType {
	return FlowCompletedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	DurationMs  int64 `json:"duration_ms"`
	ResultCount int   `json:"result_count"`
	Warnings    int   `json:"warnings"`
	Errors      int   `json:"errors"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

func NewBaseEvent(eventType EventType, executionID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ExecutionID: executionID,
	}
}
