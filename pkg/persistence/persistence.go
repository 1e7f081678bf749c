// Package persistence provides the storage abstraction for the graph and
// execution results.
package persistence

import (
	"context"

	"github.com/opsgraph/opsgraph/pkg/models"
)

type Persistence interface {
	LoadGraph(ctx context.Context) (*models.Graph, error)
	SaveGraph(ctx context.Context, graph *models.Graph) error
	SaveResults(ctx context.Context, record *models.ExecutionRecord) error
	LatestResults(ctx context.Context) (*models.ExecutionRecord, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
