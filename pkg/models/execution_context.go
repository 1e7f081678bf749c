package models

// AlertAnalysis is the alert-shaped record produced by the alert flows and
// consumed by the mail flow: what went wrong, why, and what to do about it.
type AlertAnalysis struct {
	Issue      string `json:"issue"`
	Why        string `json:"why"`
	Suggestion string `json:"suggestion"`
}

// AlertContext is the transient payload threaded from an alert flow to a later
// flow within the same execution request. It lives only for the duration of
// one request and is never persisted.
type AlertContext struct {
	SourceLabel string        `json:"source_label"`
	Analysis    AlertAnalysis `json:"analysis"`
	Timestamp   int64         `json:"timestamp"`
}

// ExecutionContext carries per-request state through one execution: the
// request id and whatever shared intermediate data earlier flows produced for
// later ones.
type ExecutionContext struct {
	ID    string
	Alert *AlertContext
}

// SetAlert records the alert context for downstream flows in this request.
func (ec *ExecutionContext) SetAlert(sourceLabel string, analysis AlertAnalysis, timestamp int64) {
	ec.Alert = &AlertContext{
		SourceLabel: sourceLabel,
		Analysis:    analysis,
		Timestamp:   timestamp,
	}
}
