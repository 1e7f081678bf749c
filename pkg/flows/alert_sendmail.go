package flows

import (
	"context"
	"fmt"

	"github.com/opsgraph/opsgraph/pkg/agents"
	"github.com/opsgraph/opsgraph/pkg/models"
)

// alertSendMailFlow emails the alert context produced by an earlier flow in
// the same execution request. A custom subject and body on the Send Mail node
// take precedence over the alert payload when both are supplied.
type alertSendMailFlow struct{}

func (f *alertSendMailFlow) Name() string {
	return NameAlertSendMail
}

func (f *alertSendMailFlow) RoleLabel() string {
	return "Email Notification"
}

func (f *alertSendMailFlow) RequiredRoles() []models.NodeRole {
	return []models.NodeRole{models.RoleAlertAgent, models.RoleSendMail}
}

func (f *alertSendMailFlow) Match(g *models.Graph) ([]string, bool) {
	return matchPair(g, models.RoleAlertAgent, models.RoleSendMail)
}

func (f *alertSendMailFlow) Run(ctx context.Context, svc Service, g *models.Graph, participants []string, ec *models.ExecutionContext) []models.FlowResult {
	// Missing alert context means no alert flow ran earlier in this request.
	// That is a missing precondition, not an error: the flow produces nothing.
	if ec.Alert == nil {
		return nil
	}

	mailNode := g.NodeByID(participants[1])
	if mailNode == nil || mailNode.Config.RecipientEmail == "" {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			"Email failed: no recipient email in Send Mail node", nil)}
	}

	recipient := mailNode.Config.RecipientEmail
	subject := mailNode.Config.EmailSubject
	body := mailNode.Config.EmailBody

	req := agents.EmailRequest{ToEmail: recipient}
	if subject != "" && body != "" {
		req.Subject = subject
		req.Body = body
	} else {
		analysis := ec.Alert.Analysis
		req.AlertData = &analysis
	}

	confirmation, err := svc.SendEmail(ctx, req)
	if err != nil {
		return []models.FlowResult{newResult(f, participants, models.StatusError,
			fmt.Sprintf("Email failed: %v", err), nil)}
	}

	summary := fmt.Sprintf("Email sent to %s", recipient)
	if req.Subject != "" {
		summary += fmt.Sprintf(" - %s", req.Subject)
	}

	return []models.FlowResult{newResult(f, participants, models.StatusSuccess, summary, confirmation)}
}
