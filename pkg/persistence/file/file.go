// Package file provides file-based persistence for the graph and execution
// results, suitable for local development and single-instance deployments.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/persistence"
)

const (
	graphFile   = "graph.json"
	resultsFile = "results.json"

	dirPerm  = 0o755
	filePerm = 0o600
)

// Persistence implements the persistence.Persistence interface on top of the
// file system. Writes are atomic: payloads land in a temp file first and are
// renamed into place.
type Persistence struct {
	root string
}

// NewPersistence creates file persistence rooted at the given directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists, creating it when absent.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	return os.MkdirAll(fp.root, dirPerm)
}

func (fp *Persistence) LoadGraph(_ context.Context) (*models.Graph, error) {
	data, err := os.ReadFile(filepath.Join(fp.root, graphFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewGraphError("Load", persistence.ErrGraphNotFound)
		}

		return nil, persistence.NewGraphError("Load", err)
	}

	var graph models.Graph

	err = json.Unmarshal(data, &graph)
	if err != nil {
		return nil, persistence.NewGraphError("Load",
			fmt.Errorf("%w: %w", persistence.ErrCorruptData, err))
	}

	return &graph, nil
}

func (fp *Persistence) SaveGraph(_ context.Context, graph *models.Graph) error {
	err := fp.writeJSON(graphFile, graph)
	if err != nil {
		return persistence.NewGraphError("Save", err)
	}

	return nil
}

func (fp *Persistence) SaveResults(_ context.Context, record *models.ExecutionRecord) error {
	err := fp.writeJSON(resultsFile, record)
	if err != nil {
		return persistence.NewResultsError("Save", record.ExecutionID, err)
	}

	return nil
}

func (fp *Persistence) LatestResults(_ context.Context) (*models.ExecutionRecord, error) {
	data, err := os.ReadFile(filepath.Join(fp.root, resultsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewResultsError("Load", "", persistence.ErrResultsNotFound)
		}

		return nil, persistence.NewResultsError("Load", "", err)
	}

	var record models.ExecutionRecord

	err = json.Unmarshal(data, &record)
	if err != nil {
		return nil, persistence.NewResultsError("Load", "",
			fmt.Errorf("%w: %w", persistence.ErrCorruptData, err))
	}

	return &record, nil
}

func (fp *Persistence) writeJSON(name string, v any) error {
	err := os.MkdirAll(fp.root, dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	target := filepath.Join(fp.root, name)
	temp := target + ".tmp"

	err = os.WriteFile(temp, data, filePerm)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	err = os.Rename(temp, target)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	return nil
}
