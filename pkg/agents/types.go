package agents

import "github.com/opsgraph/opsgraph/pkg/models"

// Wire types for the remote analysis/notification service. Field names are the
// service's contract; changing them breaks drop-in compatibility.

// Investigation is the result of a log or metrics investigation.
type Investigation struct {
	Status     string   `json:"status"`
	Message    string   `json:"message,omitempty"`
	Issue      string   `json:"issue,omitempty"`
	Why        string   `json:"why,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// MetricsResult is the proxied metrics fetch for a server endpoint. Data is an
// opaque metrics blob passed through to the analysis calls.
type MetricsResult struct {
	Success  bool   `json:"success"`
	Data     string `json:"data"`
	Endpoint string `json:"endpoint"`
}

// PredictedRisk is one entry of a reliability forecast.
type PredictedRisk struct {
	Type        string  `json:"type"`
	Probability float64 `json:"probability"`
	Severity    string  `json:"severity"`
	Prediction  string  `json:"prediction"`
}

// Reliability is the reliability analysis of a metrics blob.
type Reliability struct {
	ReliabilityScore float64         `json:"reliability_score"`
	Status           string          `json:"status"`
	PredictedRisks   []PredictedRisk `json:"predicted_risks,omitempty"`
}

// Alert is the alert analysis of a metrics blob.
type Alert struct {
	Status    string                `json:"status"`
	Analysis  *models.AlertAnalysis `json:"analysis,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

// HealthReport is the health analysis of a metrics blob.
type HealthReport struct {
	HealthStatus string         `json:"health_status"`
	Issues       []string       `json:"issues"`
	Metrics      map[string]any `json:"metrics,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// EmailRequest is the send-email payload. When both Subject and Body are set
// they take precedence over AlertData on the service side.
type EmailRequest struct {
	ToEmail   string                `json:"to_email"`
	Subject   string                `json:"subject,omitempty"`
	Body      string                `json:"body,omitempty"`
	AlertData *models.AlertAnalysis `json:"alert_data,omitempty"`
}

// Request bodies.

type investigateLogsRequest struct {
	LogData string `json:"log_data"`
}

type metricsRequest struct {
	Endpoint string `json:"endpoint"`
}

type metricsDataRequest struct {
	MetricsData string `json:"metrics_data"`
}

type fetchLogsRequest struct {
	Lines int `json:"lines"`
}

// Response envelopes.

type investigationEnvelope struct {
	Investigation Investigation `json:"investigation"`
}

type reliabilityEnvelope struct {
	Reliability Reliability `json:"reliability"`
}

type alertEnvelope struct {
	Alert Alert `json:"alert"`
}

type fetchLogsEnvelope struct {
	Logs string `json:"logs"`
}
