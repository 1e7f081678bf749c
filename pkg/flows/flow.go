// Package flows defines the fixed catalogue of recognized workflow patterns
// and the connectivity matching that decides which of them are active for a
// given graph. Catalogue order is execution order; the data threading between
// the alert flows and the mail flow depends on it.
package flows

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opsgraph/opsgraph/pkg/agents"
	"github.com/opsgraph/opsgraph/pkg/models"
)

// Service is the slice of the automation service the flows call. The agents
// client implements it; tests substitute stubs.
type Service interface {
	InvestigateLogs(ctx context.Context, logData string) (*agents.Investigation, error)
	FetchMetrics(ctx context.Context, endpoint string) (*agents.MetricsResult, error)
	AnalyzeReliability(ctx context.Context, metricsData string) (*agents.Reliability, error)
	AnalyzeAlert(ctx context.Context, metricsData string) (*agents.Alert, error)
	AnalyzeHealth(ctx context.Context, metricsData string) (*agents.HealthReport, error)
	Investigate(ctx context.Context, metricsData string) (*agents.Investigation, error)
	SendEmail(ctx context.Context, req agents.EmailRequest) (map[string]any, error)
}

// Flow is one catalogue entry: the roles it needs, the connectivity predicate
// over the graph, and the call sequence it performs when matched. Run performs
// its steps strictly sequentially and reports every outcome as FlowResults;
// it never returns an error, since per-flow failures are isolated into error
// results.
type Flow interface {
	Name() string
	RoleLabel() string
	RequiredRoles() []models.NodeRole
	Match(g *models.Graph) ([]string, bool)
	Run(ctx context.Context, svc Service, g *models.Graph, participants []string, ec *models.ExecutionContext) []models.FlowResult
}

// ActiveFlow pairs a matched flow with the concrete node ids satisfying it.
type ActiveFlow struct {
	Flow         Flow
	Participants []string
}

// Flow names, in catalogue order.
const (
	NameLogsInvestigate   = "Logs→Investigate"
	NameServerReliability = "Server→Reliability"
	NameServerAlert       = "Server→Alert"
	NameLogsAlert         = "Logs→Alert"
	NameAlertSendMail     = "Alert→SendMail"
	NamePrometheusFanout  = "Server+Prometheus→Agents"
)

// Catalogue returns the fixed, ordered flow table. Order is a total order on
// execution: the mail flow must come after both alert flows so the alert
// context it consumes already exists.
func Catalogue() []Flow {
	return []Flow{
		&logsInvestigateFlow{},
		&serverReliabilityFlow{},
		&serverAlertFlow{},
		&logsAlertFlow{},
		&alertSendMailFlow{},
		&prometheusFanoutFlow{},
	}
}

// Active returns the flows whose required roles are present and connected in
// the graph, in catalogue order. Pure: re-derivable from the graph alone.
// Runtime preconditions (the mail flow's alert context) are checked during
// execution, not here.
func Active(g *models.Graph) []ActiveFlow {
	active := make([]ActiveFlow, 0)

	for _, flow := range Catalogue() {
		if participants, ok := flow.Match(g); ok {
			active = append(active, ActiveFlow{Flow: flow, Participants: participants})
		}
	}

	return active
}

// matchPair is the common two-role connectivity rule: both roles present (first
// node of each in creation order) and at least one edge between them.
func matchPair(g *models.Graph, a, b models.NodeRole) ([]string, bool) {
	nodeA := g.FirstByRole(a)
	nodeB := g.FirstByRole(b)

	if nodeA == nil || nodeB == nil || !g.Connected(nodeA.ID, nodeB.ID) {
		return nil, false
	}

	return []string{nodeA.ID, nodeB.ID}, true
}

func newResult(flow Flow, participants []string, status models.ResultStatus, summary string, details map[string]any) models.FlowResult {
	return models.FlowResult{
		ParticipantNodeIDs: participants,
		FlowName:           flow.Name(),
		RoleLabel:          flow.RoleLabel(),
		Status:             status,
		Summary:            summary,
		Details:            details,
		Timestamp:          time.Now(),
	}
}

// toDetails converts a wire struct into the opaque details payload.
func toDetails(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}

	return out
}
