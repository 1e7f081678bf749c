package models

// Edge connects two nodes by id. Direction is recorded as drawn on the canvas
// but is ignored for connectivity: an edge counts for a role pair whichever way
// it points.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// Graph is the full workflow graph: the unit of serialization and the input to
// connectivity matching.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]*Node, 0),
		Edges: make([]*Edge, 0),
	}
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// FirstByRole returns the first node of the given role in creation order.
// When multiple nodes share a role only the first is considered for pattern
// matching; the rest are ignored. This mirrors the observed behavior of the
// canvas and is a documented limitation, not a guarantee worth relying on.
func (g *Graph) FirstByRole(role NodeRole) *Node {
	for _, node := range g.Nodes {
		if node.Role == role {
			return node
		}
	}

	return nil
}

// Connected reports whether at least one edge joins the two node ids, in
// either direction. Duplicate edges do not change the answer.
func (g *Graph) Connected(a, b string) bool {
	for _, edge := range g.Edges {
		if (edge.Source == a && edge.Target == b) || (edge.Source == b && edge.Target == a) {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the graph. The orchestrator snapshots the graph
// at validation time so that canvas edits during a run cannot affect flows
// already queued with captured parameters.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Nodes: make([]*Node, 0, len(g.Nodes)),
		Edges: make([]*Edge, 0, len(g.Edges)),
	}

	for _, node := range g.Nodes {
		copied := *node
		clone.Nodes = append(clone.Nodes, &copied)
	}

	for _, edge := range g.Edges {
		copied := *edge
		clone.Edges = append(clone.Edges, &copied)
	}

	return clone
}
