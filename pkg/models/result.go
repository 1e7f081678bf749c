package models

import "time"

// ResultStatus is the outcome classification of one flow attempt.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusWarning ResultStatus = "warning"
	StatusError   ResultStatus = "error"
)

// FlowResult records the outcome of one flow execution attempt. Results are
// created once per attempt, never mutated, and superseded wholesale by the
// next execution request.
type FlowResult struct {
	ParticipantNodeIDs []string       `json:"participant_node_ids"`
	FlowName           string         `json:"flow_name"`
	RoleLabel          string         `json:"role_label"`
	Status             ResultStatus   `json:"status"`
	Summary            string         `json:"summary"`
	Details            map[string]any `json:"details,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}

// ExecutionRecord is the persisted snapshot of one finished execution: its id
// and the full batch of flow results it produced.
type ExecutionRecord struct {
	ExecutionID string       `json:"execution_id"`
	Results     []FlowResult `json:"results"`
	CreatedAt   time.Time    `json:"created_at"`
}
