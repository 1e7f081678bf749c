// Package redis provides Redis-backed persistence for the graph and
// execution results.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/persistence"
)

const (
	graphKey   = "opsgraph:graph"
	resultsKey = "opsgraph:results:latest"
)

// Persistence implements the persistence layer on a Redis instance. Both the
// graph and the latest execution record are stored as JSON strings under
// fixed keys.
type Persistence struct {
	client *redis.Client
}

// NewPersistence connects to Redis using a redis:// URL.
func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(options)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{client: client}, nil
}

func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) LoadGraph(ctx context.Context) (*models.Graph, error) {
	payload, err := p.client.Get(ctx, graphKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewGraphError("Load", persistence.ErrGraphNotFound)
	}

	if err != nil {
		return nil, persistence.NewGraphError("Load", err)
	}

	var graph models.Graph

	err = json.Unmarshal(payload, &graph)
	if err != nil {
		return nil, persistence.NewGraphError("Load",
			fmt.Errorf("%w: %w", persistence.ErrCorruptData, err))
	}

	return &graph, nil
}

func (p *Persistence) SaveGraph(ctx context.Context, graph *models.Graph) error {
	payload, err := json.Marshal(graph)
	if err != nil {
		return persistence.NewGraphError("Save", err)
	}

	err = p.client.Set(ctx, graphKey, payload, 0).Err()
	if err != nil {
		return persistence.NewGraphError("Save", err)
	}

	return nil
}

func (p *Persistence) SaveResults(ctx context.Context, record *models.ExecutionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return persistence.NewResultsError("Save", record.ExecutionID, err)
	}

	err = p.client.Set(ctx, resultsKey, payload, 0).Err()
	if err != nil {
		return persistence.NewResultsError("Save", record.ExecutionID, err)
	}

	return nil
}

func (p *Persistence) LatestResults(ctx context.Context) (*models.ExecutionRecord, error) {
	payload, err := p.client.Get(ctx, resultsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewResultsError("Load", "", persistence.ErrResultsNotFound)
	}

	if err != nil {
		return nil, persistence.NewResultsError("Load", "", err)
	}

	var record models.ExecutionRecord

	err = json.Unmarshal(payload, &record)
	if err != nil {
		return nil, persistence.NewResultsError("Load", "",
			fmt.Errorf("%w: %w", persistence.ErrCorruptData, err))
	}

	return &record, nil
}
