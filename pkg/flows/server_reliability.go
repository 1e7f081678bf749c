package flows

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/opsgraph/opsgraph/pkg/agents"
	"github.com/opsgraph/opsgraph/pkg/models"
)

// serverReliabilityFlow fetches the server's metrics and runs the reliability
// forecast over them.
type serverReliabilityFlow struct{}

func (f *serverReliabilityFlow) Name() string {
	return NameServerReliability
}

func (f *serverReliabilityFlow) RoleLabel() string {
	return "Reliability Agent"
}

func (f *serverReliabilityFlow) RequiredRoles() []models.NodeRole {
	return []models.NodeRole{models.RoleServer, models.RoleReliabilityAgent}
}

func (f *serverReliabilityFlow) Match(g *models.Graph) ([]string, bool) {
	return matchPair(g, models.RoleServer, models.RoleReliabilityAgent)
}

func (f *serverReliabilityFlow) Run(ctx context.Context, svc Service, g *models.Graph, participants []string, _ *models.ExecutionContext) []models.FlowResult {
	serverNode := g.NodeByID(participants[0])
	if serverNode == nil || serverNode.Config.APIEndpoint == "" {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			"Analysis failed: no API endpoint in Server node", nil)}
	}

	metrics, err := svc.FetchMetrics(ctx, serverNode.Config.APIEndpoint)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Analysis failed: %v", err), nil)}
	}

	reliability, err := svc.AnalyzeReliability(ctx, metrics.Data)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Analysis failed: %v", err), nil)}
	}

	summary := fmt.Sprintf("Reliability Score: %v\nStatus: %s", reliability.ReliabilityScore, reliability.Status)

	if len(reliability.PredictedRisks) > 0 {
		risks := slices.Clone(reliability.PredictedRisks)
		slices.SortFunc(risks, func(a, b agents.PredictedRisk) int {
			switch {
			case a.Probability > b.Probability:
				return -1
			case a.Probability < b.Probability:
				return 1
			default:
				return 0
			}
		})

		top := risks[0]
		summary += fmt.Sprintf("\nTop risk: %s (%d%%)", top.Type, int(math.Round(top.Probability*100)))
	}

	status := models.StatusSuccess
	if reliability.Status == "critical" {
		status = models.StatusWarning
	}

	return []models.FlowResult{newResult(f, participants, status, summary, toDetails(reliability))}
}
