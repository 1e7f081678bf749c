// Package postgresql provides PostgreSQL persistence for the graph and
// execution results.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/persistence"
	"github.com/opsgraph/opsgraph/pkg/persistence/sqlbase"
)

// The graph is a single document, so both tables hold one logical row: the
// graph table is keyed by a fixed id and the results table keeps the latest
// record on top by created_at.
const graphRowID = "default"

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPersistence opens the database, verifies connectivity, and runs
// migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{db: database, logger: logger}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) LoadGraph(ctx context.Context) (*models.Graph, error) {
	var payload []byte

	err := p.db.QueryRowContext(ctx,
		"SELECT payload FROM graphs WHERE id = $1", graphRowID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
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

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO graphs (id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, graphRowID, payload)
	if err != nil {
		return persistence.NewGraphError("Save", err)
	}

	return nil
}

func (p *Persistence) SaveResults(ctx context.Context, record *models.ExecutionRecord) error {
	payload, err := json.Marshal(record.Results)
	if err != nil {
		return persistence.NewResultsError("Save", record.ExecutionID, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO execution_results (execution_id, results, created_at)
		VALUES ($1, $2, $3)
	`, record.ExecutionID, payload, record.CreatedAt)
	if err != nil {
		return persistence.NewResultsError("Save", record.ExecutionID, err)
	}

	return nil
}

func (p *Persistence) LatestResults(ctx context.Context) (*models.ExecutionRecord, error) {
	record := &models.ExecutionRecord{}

	var payload []byte

	err := p.db.QueryRowContext(ctx, `
		SELECT execution_id, results, created_at
		FROM execution_results
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&record.ExecutionID, &payload, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewResultsError("Load", "", persistence.ErrResultsNotFound)
	}

	if err != nil {
		return nil, persistence.NewResultsError("Load", "", err)
	}

	err = json.Unmarshal(payload, &record.Results)
	if err != nil {
		return nil, persistence.NewResultsError("Load", record.ExecutionID,
			fmt.Errorf("%w: %w", persistence.ErrCorruptData, err))
	}

	return record, nil
}
