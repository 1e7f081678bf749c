package flows

import (
	"context"
	"fmt"

	"github.com/opsgraph/opsgraph/pkg/models"
)

// prometheusFanoutFlow fetches the server's metrics once through the
// Prometheus node and fans them out to whichever sub-agents are connected to
// it: the health agent, the investigator, or both. The single upstream fetch
// feeding both branches is deliberate: a fetch failure yields one combined
// error result covering both, while a sub-agent failure stays isolated to its
// own branch.
type prometheusFanoutFlow struct{}

func (f *prometheusFanoutFlow) Name() string {
	return NamePrometheusFanout
}

func (f *prometheusFanoutFlow) RoleLabel() string {
	return "Prometheus Metrics"
}

func (f *prometheusFanoutFlow) RequiredRoles() []models.NodeRole {
	return []models.NodeRole{models.RoleServer, models.RolePrometheus}
}

func (f *prometheusFanoutFlow) Match(g *models.Graph) ([]string, bool) {
	server := g.FirstByRole(models.RoleServer)
	prometheus := g.FirstByRole(models.RolePrometheus)

	if server == nil || prometheus == nil || !g.Connected(server.ID, prometheus.ID) {
		return nil, false
	}

	participants := []string{server.ID, prometheus.ID}

	if health := g.FirstByRole(models.RoleHealthAgent); health != nil && g.Connected(prometheus.ID, health.ID) {
		participants = append(participants, health.ID)
	}

	if investigator := g.FirstByRole(models.RoleInvestigatorAgent); investigator != nil && g.Connected(prometheus.ID, investigator.ID) {
		participants = append(participants, investigator.ID)
	}

	// The Server-Prometheus edge alone is not a flow; at least one sub-agent
	// must be wired to the Prometheus node.
	if len(participants) == 2 {
		return nil, false
	}

	return participants, true
}

func (f *prometheusFanoutFlow) Run(ctx context.Context, svc Service, g *models.Graph, participants []string, _ *models.ExecutionContext) []models.FlowResult {
	serverNode := g.NodeByID(participants[0])
	prometheusNode := g.NodeByID(participants[1])

	var healthID, investigatorID string

	for _, id := range participants[2:] {
		node := g.NodeByID(id)
		if node == nil {
			continue
		}

		switch node.Role {
		case models.RoleHealthAgent:
			healthID = id
		case models.RoleInvestigatorAgent:
			investigatorID = id
		}
	}

	if serverNode == nil || serverNode.Config.APIEndpoint == "" {
		return []models.FlowResult{newResult(f, []string{}, models.StatusError,
			"Failed to fetch metrics for agents: no API endpoint in Server node", nil)}
	}

	metrics, err := svc.FetchMetrics(ctx, serverNode.Config.APIEndpoint)
	if err != nil {
		// One combined error for both branches: neither agent got its input.
		return []models.FlowResult{newResult(f, []string{}, models.StatusError,
			fmt.Sprintf("Failed to fetch metrics for agents: %v", err), nil)}
	}

	results := make([]models.FlowResult, 0, 2)

	if healthID != "" {
		results = append(results, f.runHealth(ctx, svc, metrics.Data,
			[]string{serverNode.ID, prometheusNode.ID, healthID}, healthID))
	}

	if investigatorID != "" {
		results = append(results, f.runInvestigator(ctx, svc, metrics.Data,
			[]string{serverNode.ID, prometheusNode.ID, investigatorID}, investigatorID))
	}

	return results
}

func (f *prometheusFanoutFlow) runHealth(ctx context.Context, svc Service, metricsData string, participants []string, healthID string) models.FlowResult {
	report, err := svc.AnalyzeHealth(ctx, metricsData)
	if err != nil {
		result := newResult(f, []string{healthID}, models.StatusError,
			fmt.Sprintf("Health Check Failed: %v", err), nil)
		result.RoleLabel = "Health Agent"

		return result
	}

	status := models.StatusWarning
	if report.HealthStatus == "healthy" {
		status = models.StatusSuccess
	}

	summary := report.Message
	if summary == "" {
		summary = fmt.Sprintf("Health Status: %s\nIssues: %d", report.HealthStatus, len(report.Issues))
	}

	result := newResult(f, participants, status, summary, toDetails(report))
	result.RoleLabel = "Health Agent"

	return result
}

func (f *prometheusFanoutFlow) runInvestigator(ctx context.Context, svc Service, metricsData string, participants []string, investigatorID string) models.FlowResult {
	investigation, err := svc.Investigate(ctx, metricsData)
	if err != nil {
		result := newResult(f, []string{investigatorID}, models.StatusError,
			fmt.Sprintf("Investigation Failed: %v", err), nil)
		result.RoleLabel = "Investigator Agent (Metrics)"

		return result
	}

	status := models.StatusWarning
	if investigation.Status == "healthy" || investigation.Status == "success" {
		status = models.StatusSuccess
	}

	summary := investigation.Message
	if summary == "" {
		summary = fmt.Sprintf("Metric Investigation: %s", investigation.Status)
	}

	result := newResult(f, participants, status, summary, toDetails(investigation))
	result.RoleLabel = "Investigator Agent (Metrics)"

	return result
}
