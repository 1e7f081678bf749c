// Package graph implements the in-memory workflow graph store: node and edge
// mutations, id generation, and write-through persistence on every change.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opsgraph/opsgraph/pkg/models"
)

// Saver receives the graph after every mutation. Implementations live in the
// persistence package; a nil saver disables write-through.
type Saver interface {
	SaveGraph(ctx context.Context, g *models.Graph) error
}

// Store owns the current workflow graph. All mutations go through the store so
// that ids stay unique and every change is written through to storage. The
// store is safe for concurrent use; execution works on immutable snapshots.
type Store struct {
	mu      sync.RWMutex
	graph   *models.Graph
	nodeSeq int64
	edgeSeq int64
	saver   Saver
	logger  *slog.Logger
}

// NewStore creates an empty graph store. The id sequence is owned by the
// store, not shared module state, so multiple stores in one process generate
// independent ids.
func NewStore(saver Saver, logger *slog.Logger) *Store {
	return &Store{
		graph:  models.NewGraph(),
		saver:  saver,
		logger: logger.With("module", "graph_store"),
	}
}

// AddNode creates a node of the given role at the given position and returns
// its id. Ids combine a monotonic counter with the creation timestamp so that
// rapid successive creations stay unique.
func (s *Store) AddNode(ctx context.Context, role models.NodeRole, pos models.Position) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("unknown node role: %q", role)
	}

	s.mu.Lock()
	s.nodeSeq++
	id := fmt.Sprintf("%s-%d-%d", role, s.nodeSeq, time.Now().UnixMilli())
	s.graph.Nodes = append(s.graph.Nodes, &models.Node{
		ID:       id,
		Role:     role,
		Position: pos,
	})
	s.mu.Unlock()

	s.persist(ctx)

	return id, nil
}

// UpdateNodeConfig merges the patch into the node's configuration. Unknown ids
// are a silent no-op: the canvas may race a config edit against a deletion.
func (s *Store) UpdateNodeConfig(ctx context.Context, id string, patch models.NodeConfigPatch) {
	s.mu.Lock()

	node := s.graph.NodeByID(id)
	if node == nil {
		s.mu.Unlock()

		return
	}

	patch.Apply(&node.Config)
	s.mu.Unlock()

	s.persist(ctx)
}

// MoveNode updates a node's canvas position. Unknown ids are a no-op.
func (s *Store) MoveNode(ctx context.Context, id string, pos models.Position) {
	s.mu.Lock()

	node := s.graph.NodeByID(id)
	if node == nil {
		s.mu.Unlock()

		return
	}

	node.Position = pos
	s.mu.Unlock()

	s.persist(ctx)
}

// RemoveNode deletes the node and every edge incident to it. Unknown ids are a
// no-op.
func (s *Store) RemoveNode(ctx context.Context, id string) {
	s.mu.Lock()

	nodes := s.graph.Nodes[:0]
	removed := false

	for _, node := range s.graph.Nodes {
		if node.ID == id {
			removed = true

			continue
		}

		nodes = append(nodes, node)
	}

	if !removed {
		s.mu.Unlock()

		return
	}

	s.graph.Nodes = nodes

	edges := s.graph.Edges[:0]
	for _, edge := range s.graph.Edges {
		if edge.Source == id || edge.Target == id {
			continue
		}

		edges = append(edges, edge)
	}

	s.graph.Edges = edges
	s.mu.Unlock()

	s.persist(ctx)
}

// AddEdge connects two nodes. Missing endpoints make it a no-op; duplicate
// edges are permitted since connectivity is existence-based, not count-based.
func (s *Store) AddEdge(ctx context.Context, source, target string) {
	s.mu.Lock()

	if s.graph.NodeByID(source) == nil || s.graph.NodeByID(target) == nil {
		s.mu.Unlock()

		return
	}

	s.edgeSeq++
	s.graph.Edges = append(s.graph.Edges, &models.Edge{
		ID:     fmt.Sprintf("edge-%d", s.edgeSeq),
		Source: source,
		Target: target,
	})
	s.mu.Unlock()

	s.persist(ctx)
}

// Snapshot returns a deep copy of the current graph.
func (s *Store) Snapshot() *models.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.graph.Clone()
}

// Restore replaces the current graph with the given one, typically at session
// start from storage. The id sequence is re-seeded past the restored node
// count so new ids cannot collide with restored ones.
func (s *Store) Restore(g *models.Graph) {
	if g == nil {
		g = models.NewGraph()
	}

	s.mu.Lock()
	s.graph = g.Clone()
	s.nodeSeq = int64(len(g.Nodes))
	s.edgeSeq = int64(len(g.Edges))
	s.mu.Unlock()
}

// Clear resets the store to an empty graph.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.graph = models.NewGraph()
	s.mu.Unlock()

	s.persist(ctx)
}

// persist writes the graph through to storage. Persistence failures are logged
// and never surfaced to the mutation caller.
func (s *Store) persist(ctx context.Context) {
	if s.saver == nil {
		return
	}

	if err := s.saver.SaveGraph(ctx, s.Snapshot()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist graph", "error", err)
	}
}
