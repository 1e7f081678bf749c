// Package web provides HTTP request and response types for the graph API.
package web

import (
	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/registry"
)

// AddNodeRequest represents the request body for placing a new node.
type AddNodeRequest struct {
	Role      string  `json:"role"       validate:"required"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
}

// UpdateNodeConfigRequest represents a partial configuration update. Absent
// fields keep their current values.
type UpdateNodeConfigRequest struct {
	APIEndpoint    *string `json:"api_endpoint,omitempty"`
	LogData        *string `json:"log_data,omitempty"`
	RecipientEmail *string `json:"recipient_email,omitempty" validate:"omitempty,email"`
	EmailSubject   *string `json:"email_subject,omitempty"`
	EmailBody      *string `json:"email_body,omitempty"`
}

// Patch converts the request into the model-level configuration patch.
func (r UpdateNodeConfigRequest) Patch() models.NodeConfigPatch {
	return models.NodeConfigPatch{
		APIEndpoint:    r.APIEndpoint,
		LogData:        r.LogData,
		RecipientEmail: r.RecipientEmail,
		EmailSubject:   r.EmailSubject,
		EmailBody:      r.EmailBody,
	}
}

// MoveNodeRequest represents the request body for repositioning a node.
type MoveNodeRequest struct {
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
}

// ConnectRequest represents the request body for adding an edge.
type ConnectRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// FetchLogsRequest represents the request body for the log-fetch proxy.
type FetchLogsRequest struct {
	Lines int `json:"lines" validate:"omitempty,min=1,max=1000"`
}

// NodeResponse is a stored node joined with its role descriptor. Descriptor
// fields are derived from the role on every read, never stored.
type NodeResponse struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Label     string            `json:"label"`
	Icon      string            `json:"icon"`
	Color     string            `json:"color"`
	PositionX float64           `json:"position_x"`
	PositionY float64           `json:"position_y"`
	Config    models.NodeConfig `json:"config"`
}

// GraphResponse is the full graph as returned by the API.
type GraphResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	Edges []*models.Edge `json:"edges"`
}

// TransformNodeResponse joins a node with its role descriptor.
func TransformNodeResponse(node *models.Node) NodeResponse {
	descriptor := registry.Descriptor(node.Role)

	return NodeResponse{
		ID:        node.ID,
		Role:      string(node.Role),
		Label:     descriptor.Label,
		Icon:      descriptor.Icon,
		Color:     descriptor.Color,
		PositionX: node.Position.X,
		PositionY: node.Position.Y,
		Config:    node.Config,
	}
}

// TransformGraphResponse joins every node in the graph with its descriptor.
func TransformGraphResponse(g *models.Graph) GraphResponse {
	nodes := make([]NodeResponse, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		nodes = append(nodes, TransformNodeResponse(node))
	}

	edges := g.Edges
	if edges == nil {
		edges = []*models.Edge{}
	}

	return GraphResponse{Nodes: nodes, Edges: edges}
}
