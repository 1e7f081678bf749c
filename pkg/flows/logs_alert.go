package flows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opsgraph/opsgraph/pkg/models"
)

// logsAlertFlow investigates log text and reshapes the investigation into an
// alert-shaped record, falling back to generic templates when the investigator
// left fields empty. The record becomes the execution's alert context.
type logsAlertFlow struct{}

func (f *logsAlertFlow) Name() string {
	return NameLogsAlert
}

func (f *logsAlertFlow) RoleLabel() string {
	return "Alert Agent (Logs)"
}

func (f *logsAlertFlow) RequiredRoles() []models.NodeRole {
	return []models.NodeRole{models.RoleServerLogs, models.RoleAlertAgent}
}

func (f *logsAlertFlow) Match(g *models.Graph) ([]string, bool) {
	return matchPair(g, models.RoleServerLogs, models.RoleAlertAgent)
}

func (f *logsAlertFlow) Run(ctx context.Context, svc Service, g *models.Graph, participants []string, ec *models.ExecutionContext) []models.FlowResult {
	logsNode := g.NodeByID(participants[0])
	if logsNode == nil || logsNode.Config.LogData == "" {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			"Log analysis failed: no log data provided in Server Logs node", nil)}
	}

	investigation, err := svc.InvestigateLogs(ctx, logsNode.Config.LogData)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Log analysis failed: %v", err), nil)}
	}

	analysis := models.AlertAnalysis{
		Issue:      investigation.Issue,
		Why:        investigation.Why,
		Suggestion: investigation.Suggestion,
	}

	if analysis.Issue == "" {
		analysis.Issue = investigation.Message
	}

	if analysis.Issue == "" {
		analysis.Issue = "Log Analysis Complete"
	}

	if analysis.Why == "" {
		analysis.Why = fmt.Sprintf("Analysis of server logs revealed: %s", investigation.Status)
	}

	if analysis.Suggestion == "" {
		if len(investigation.Errors) > 0 {
			analysis.Suggestion = fmt.Sprintf("Address the following errors: %s", strings.Join(investigation.Errors, ", "))
		} else {
			analysis.Suggestion = "Continue monitoring logs for any anomalies"
		}
	}

	ec.SetAlert(f.RoleLabel(), analysis, time.Now().Unix())

	status := models.StatusSuccess
	if len(investigation.Errors) > 0 {
		status = models.StatusWarning
	}

	details := toDetails(investigation)
	if details == nil {
		details = make(map[string]any)
	}

	details["alert_analysis"] = toDetails(analysis)

	summary := fmt.Sprintf("Issue: %s\nSuggestion: %s", analysis.Issue, analysis.Suggestion)

	return []models.FlowResult{newResult(f, participants, status, summary, details)}
}
