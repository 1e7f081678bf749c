// Package registry resolves node roles to their presentation descriptors and
// validates role configuration payloads. Descriptors are static lookup data,
// re-derived from the role on every load, and are never serialized with the
// graph.
package registry

import "github.com/opsgraph/opsgraph/pkg/models"

// RoleDescriptor is the non-data binding attached to a node role: how the
// canvas labels and paints it. Icon is a symbolic name resolved by the UI.
type RoleDescriptor struct {
	Role  models.NodeRole `json:"role"`
	Label string          `json:"label"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
}

var descriptors = map[models.NodeRole]RoleDescriptor{
	models.RoleServer:            {Role: models.RoleServer, Label: "Server", Icon: "server", Color: "#3b82f6"},
	models.RoleServerLogs:        {Role: models.RoleServerLogs, Label: "Server Logs", Icon: "file-text", Color: "#6366f1"},
	models.RoleTelemetry:         {Role: models.RoleTelemetry, Label: "Telemetry", Icon: "activity", Color: "#8b5cf6"},
	models.RolePrometheus:        {Role: models.RolePrometheus, Label: "Prometheus", Icon: "bar-chart-3", Color: "#f97316"},
	models.RoleSendMail:          {Role: models.RoleSendMail, Label: "Send Mail", Icon: "mail", Color: "#10b981"},
	models.RoleSendSMS:           {Role: models.RoleSendSMS, Label: "Send SMS", Icon: "message-square", Color: "#06b6d4"},
	models.RoleHealthAgent:       {Role: models.RoleHealthAgent, Label: "Health Agent", Icon: "shield", Color: "#22c55e"},
	models.RoleInvestigatorAgent: {Role: models.RoleInvestigatorAgent, Label: "Investigator Agent", Icon: "shield", Color: "#eab308"},
	models.RoleReliabilityAgent:  {Role: models.RoleReliabilityAgent, Label: "Reliability Agent", Icon: "trending-up", Color: "#10b981"},
	models.RoleAlertAgent:        {Role: models.RoleAlertAgent, Label: "Alert Agent", Icon: "bell", Color: "#ef4444"},
	models.RoleHTTPRequest:       {Role: models.RoleHTTPRequest, Label: "HTTP Request", Icon: "globe", Color: "#8b5cf6"},
}

// Descriptor returns the descriptor for a role. Unrecognized roles fall back
// to the server descriptor so that a stored graph written by a newer version
// still loads instead of failing wholesale.
func Descriptor(role models.NodeRole) RoleDescriptor {
	if d, ok := descriptors[role]; ok {
		return d
	}

	fallback := descriptors[models.RoleServer]
	fallback.Role = role

	return fallback
}

// Descriptors returns all descriptors in palette order.
func Descriptors() []RoleDescriptor {
	out := make([]RoleDescriptor, 0, len(models.AllRoles))
	for _, role := range models.AllRoles {
		out = append(out, descriptors[role])
	}

	return out
}

// Label is a shorthand for the role's display label.
func Label(role models.NodeRole) string {
	return Descriptor(role).Label
}
