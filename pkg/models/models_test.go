package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRole_Valid(t *testing.T) {
	for _, role := range AllRoles {
		assert.True(t, role.Valid(), "role %q should be valid", role)
	}

	assert.False(t, NodeRole("loadBalancer").Valid())
	assert.False(t, NodeRole("").Valid())
}

func TestNodeConfigPatch_Apply(t *testing.T) {
	cfg := NodeConfig{
		APIEndpoint: "10.0.0.1:9100",
		LogData:     "old logs",
	}

	endpoint := "10.0.0.2:9100"
	subject := "weekly report"
	patch := NodeConfigPatch{
		APIEndpoint:  &endpoint,
		EmailSubject: &subject,
	}

	patch.Apply(&cfg)

	assert.Equal(t, "10.0.0.2:9100", cfg.APIEndpoint)
	assert.Equal(t, "weekly report", cfg.EmailSubject)
	assert.Equal(t, "old logs", cfg.LogData, "unpatched fields must survive")
}

func TestGraph_FirstByRole_CreationOrder(t *testing.T) {
	g := NewGraph()
	g.Nodes = append(g.Nodes,
		&Node{ID: "server-1", Role: RoleServer},
		&Node{ID: "server-2", Role: RoleServer},
		&Node{ID: "alert-1", Role: RoleAlertAgent},
	)

	first := g.FirstByRole(RoleServer)
	require.NotNil(t, first)
	assert.Equal(t, "server-1", first.ID, "duplicate roles collapse to the first created node")

	assert.Nil(t, g.FirstByRole(RolePrometheus))
}

func TestGraph_Connected_EitherDirection(t *testing.T) {
	g := NewGraph()
	g.Edges = append(g.Edges, &Edge{ID: "e1", Source: "a", Target: "b"})

	assert.True(t, g.Connected("a", "b"))
	assert.True(t, g.Connected("b", "a"))
	assert.False(t, g.Connected("a", "c"))
}

func TestGraph_Connected_DuplicateEdges(t *testing.T) {
	g := NewGraph()
	g.Edges = append(g.Edges,
		&Edge{ID: "e1", Source: "a", Target: "b"},
		&Edge{ID: "e2", Source: "b", Target: "a"},
	)

	assert.True(t, g.Connected("a", "b"))
}

func TestGraph_Clone_IsDeep(t *testing.T) {
	g := NewGraph()
	g.Nodes = append(g.Nodes, &Node{ID: "n1", Role: RoleServer, Config: NodeConfig{APIEndpoint: "host:9100"}})
	g.Edges = append(g.Edges, &Edge{ID: "e1", Source: "n1", Target: "n2"})

	clone := g.Clone()
	clone.Nodes[0].Config.APIEndpoint = "changed"
	clone.Edges[0].Target = "n3"

	assert.Equal(t, "host:9100", g.Nodes[0].Config.APIEndpoint)
	assert.Equal(t, "n2", g.Edges[0].Target)
}

func TestNode_JSONOmitsEmptyConfigFields(t *testing.T) {
	node := &Node{
		ID:   "server-1-123",
		Role: RoleServer,
		Config: NodeConfig{
			APIEndpoint: "20.197.7.126:9100",
		},
	}

	payload, err := json.Marshal(node)
	require.NoError(t, err)

	assert.Contains(t, string(payload), "api_endpoint")
	assert.NotContains(t, string(payload), "log_data")
	assert.NotContains(t, string(payload), "recipient_email")
}

func TestNode_IsAgent(t *testing.T) {
	agent := &Node{ID: "a", Role: RoleReliabilityAgent}
	sink := &Node{ID: "b", Role: RoleSendMail}

	assert.True(t, agent.IsAgent())
	assert.False(t, sink.IsAgent())
}
