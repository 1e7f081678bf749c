package flows

import (
	"context"
	"fmt"

	"github.com/opsgraph/opsgraph/pkg/models"
)

// serverAlertFlow fetches the server's metrics and runs the alert analysis.
// On success the analysis becomes the execution's alert context, feeding the
// mail flow later in the same request.
type serverAlertFlow struct{}

func (f *serverAlertFlow) Name() string {
	return NameServerAlert
}

func (f *serverAlertFlow) RoleLabel() string {
	return "Alert Agent"
}

func (f *serverAlertFlow) RequiredRoles() []models.NodeRole {
	return []models.NodeRole{models.RoleServer, models.RoleAlertAgent}
}

func (f *serverAlertFlow) Match(g *models.Graph) ([]string, bool) {
	return matchPair(g, models.RoleServer, models.RoleAlertAgent)
}

func (f *serverAlertFlow) Run(ctx context.Context, svc Service, g *models.Graph, participants []string, ec *models.ExecutionContext) []models.FlowResult {
	serverNode := g.NodeByID(participants[0])
	if serverNode == nil || serverNode.Config.APIEndpoint == "" {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			"Alert analysis failed: no API endpoint in Server node", nil)}
	}

	metrics, err := svc.FetchMetrics(ctx, serverNode.Config.APIEndpoint)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Alert analysis failed: %v", err), nil)}
	}

	alert, err := svc.AnalyzeAlert(ctx, metrics.Data)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Alert analysis failed: %v", err), nil)}
	}

	if alert.Status == "success" && alert.Analysis != nil {
		ec.SetAlert(f.RoleLabel(), *alert.Analysis, alert.Timestamp)
	}

	status := models.StatusWarning
	if alert.Status == "success" {
		status = models.StatusSuccess
	}

	summary := "Alert analysis completed"
	if alert.Analysis != nil {
		summary = fmt.Sprintf("Issue: %s\nSuggestion: %s", alert.Analysis.Issue, alert.Analysis.Suggestion)
	}

	return []models.FlowResult{newResult(f, participants, status, summary, toDetails(alert))}
}
