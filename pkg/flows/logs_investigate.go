package flows

import (
	"context"
	"fmt"

	"github.com/opsgraph/opsgraph/pkg/models"
)

// logsInvestigateFlow sends the Server Logs node's log text to the
// investigator and reports the investigation verbatim.
type logsInvestigateFlow struct{}

func (f *logsInvestigateFlow) Name() string {
	return NameLogsInvestigate
}

func (f *logsInvestigateFlow) RoleLabel() string {
	return "Investigator Agent (Logs)"
}

func (f *logsInvestigateFlow) RequiredRoles() []models.NodeRole {
	return []models.NodeRole{models.RoleServerLogs, models.RoleInvestigatorAgent}
}

func (f *logsInvestigateFlow) Match(g *models.Graph) ([]string, bool) {
	return matchPair(g, models.RoleServerLogs, models.RoleInvestigatorAgent)
}

func (f *logsInvestigateFlow) Run(ctx context.Context, svc Service, g *models.Graph, participants []string, _ *models.ExecutionContext) []models.FlowResult {
	logsNode := g.NodeByID(participants[0])
	if logsNode == nil || logsNode.Config.LogData == "" {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			"Failed to investigate logs: no log data provided in Server Logs node", nil)}
	}

	investigation, err := svc.InvestigateLogs(ctx, logsNode.Config.LogData)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Failed to investigate logs: %v", err), nil)}
	}

	summary := investigation.Message
	if summary == "" {
		summary = fmt.Sprintf("Investigated server logs.\nStatus: %s", investigation.Status)
	}

	return []models.FlowResult{newResult(f, participants, models.StatusSuccess, summary, toDetails(investigation))}
}
