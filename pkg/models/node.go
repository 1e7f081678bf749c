// Package models defines the core domain models for graph-based infrastructure
// automation workflows.
package models

// NodeRole identifies the kind of infrastructure element, data source, analysis
// agent, or notification sink a node represents. Role is immutable after
// creation and determines which configuration fields are meaningful.
type NodeRole string

const (
	RoleServer            NodeRole = "server"
	RoleServerLogs        NodeRole = "serverLogs"
	RoleTelemetry         NodeRole = "telemetry"
	RolePrometheus        NodeRole = "prometheus"
	RoleSendMail          NodeRole = "sendMail"
	RoleSendSMS           NodeRole = "sendSms"
	RoleHealthAgent       NodeRole = "healthAgent"
	RoleInvestigatorAgent NodeRole = "investigatorAgent"
	RoleReliabilityAgent  NodeRole = "reliabilityAgent"
	RoleAlertAgent        NodeRole = "alertAgent"
	RoleHTTPRequest       NodeRole = "httpRequest"
)

// AllRoles lists every known role in palette order.
var AllRoles = []NodeRole{
	RoleServer,
	RoleServerLogs,
	RoleTelemetry,
	RolePrometheus,
	RoleSendMail,
	RoleSendSMS,
	RoleHealthAgent,
	RoleInvestigatorAgent,
	RoleReliabilityAgent,
	RoleAlertAgent,
	RoleHTTPRequest,
}

// Valid reports whether the role is one of the known variants.
func (r NodeRole) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}

	return false
}

// Position is the node's 2D canvas coordinate. It is mutated freely by the
// canvas and has no execution semantics.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeConfig holds the role-dependent configuration fields. All fields are
// optional strings until filled; fields unused by a node's role are ignored.
type NodeConfig struct {
	APIEndpoint    string `json:"api_endpoint,omitempty"`
	LogData        string `json:"log_data,omitempty"`
	RecipientEmail string `json:"recipient_email,omitempty" validate:"omitempty,email"`
	EmailSubject   string `json:"email_subject,omitempty"`
	EmailBody      string `json:"email_body,omitempty"`
}

// NodeConfigPatch carries a partial configuration update. Nil fields are left
// untouched.
type NodeConfigPatch struct {
	APIEndpoint    *string `json:"api_endpoint,omitempty"`
	LogData        *string `json:"log_data,omitempty"`
	RecipientEmail *string `json:"recipient_email,omitempty" validate:"omitempty,email"`
	EmailSubject   *string `json:"email_subject,omitempty"`
	EmailBody      *string `json:"email_body,omitempty"`
}

// Apply merges the patch into the configuration.
func (p NodeConfigPatch) Apply(cfg *NodeConfig) {
	if p.APIEndpoint != nil {
		cfg.APIEndpoint = *p.APIEndpoint
	}

	if p.LogData != nil {
		cfg.LogData = *p.LogData
	}

	if p.RecipientEmail != nil {
		cfg.RecipientEmail = *p.RecipientEmail
	}

	if p.EmailSubject != nil {
		cfg.EmailSubject = *p.EmailSubject
	}

	if p.EmailBody != nil {
		cfg.EmailBody = *p.EmailBody
	}
}

// Node is a typed unit of the workflow graph. Only plain data lives here;
// presentation bindings are re-derived from Role (see the registry package)
// and never serialized.
type Node struct {
	ID       string     `json:"id"       validate:"required"`
	Role     NodeRole   `json:"role"     validate:"required"`
	Position Position   `json:"position"`
	Config   NodeConfig `json:"config"`
}

// IsAgent reports whether the node's role is one of the analysis agents.
func (n *Node) IsAgent() bool {
	switch n.Role {
	case RoleHealthAgent, RoleInvestigatorAgent, RoleReliabilityAgent, RoleAlertAgent:
		return true
	default:
		return false
	}
}
