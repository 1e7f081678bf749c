// Package web provides the REST surface over the graph store and the
// execution engine.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/opsgraph/opsgraph/pkg/graph"
	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/persistence"
	"github.com/opsgraph/opsgraph/pkg/registry"
)

// Executor runs one execution request. The engine implements it.
type Executor interface {
	Execute(ctx context.Context) (*models.ExecutionRecord, error)
}

// LogFetcher proxies the remote journal log fetch. The agents client
// implements it.
type LogFetcher interface {
	FetchLogs(ctx context.Context, lines int) (string, error)
}

type APIHandlers struct {
	store       *graph.Store
	executor    Executor
	logs        LogFetcher
	persistence persistence.Persistence
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewAPIHandlers(
	store *graph.Store,
	executor Executor,
	logs LogFetcher,
	persist persistence.Persistence,
	validate *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		store:       store,
		executor:    executor,
		logs:        logs,
		persistence: persist,
		validator:   validate,
		logger:      logger.With("module", "web"),
	}
}

// Register mounts all routes on the app.
func (h *APIHandlers) Register(app *fiber.App) {
	app.Get("/graph", h.GetGraph)
	app.Delete("/graph", h.ClearGraph)
	app.Post("/graph/nodes", h.AddNode)
	app.Patch("/graph/nodes/:id/config", h.UpdateNodeConfig)
	app.Patch("/graph/nodes/:id/position", h.MoveNode)
	app.Delete("/graph/nodes/:id", h.DeleteNode)
	app.Post("/graph/edges", h.ConnectNodes)
	app.Post("/executions", h.Execute)
	app.Get("/executions/latest", h.LatestResults)
	app.Post("/logs/fetch", h.FetchLogs)
	app.Get("/roles", h.Roles)
	app.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) GetGraph(c fiber.Ctx) error {
	return c.JSON(TransformGraphResponse(h.store.Snapshot()))
}

func (h *APIHandlers) AddNode(c fiber.Ctx) error {
	var req AddNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	id, err := h.store.AddNode(c.Context(), models.NodeRole(req.Role),
		models.Position{X: req.PositionX, Y: req.PositionY})
	if err != nil {
		return badRequest(c, err.Error())
	}

	node := h.store.Snapshot().NodeByID(id)

	return c.Status(fiber.StatusCreated).JSON(TransformNodeResponse(node))
}

func (h *APIHandlers) UpdateNodeConfig(c fiber.Ctx) error {
	id := c.Params("id")

	if h.store.Snapshot().NodeByID(id) == nil {
		return notFound(c, "Node not found")
	}

	// Validate the raw payload against the config schema first so unknown
	// fields are rejected rather than silently dropped.
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := registry.ValidateConfig(payload); err != nil {
		return badRequest(c, err.Error())
	}

	var req UpdateNodeConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	h.store.UpdateNodeConfig(c.Context(), id, req.Patch())

	return c.JSON(TransformNodeResponse(h.store.Snapshot().NodeByID(id)))
}

func (h *APIHandlers) MoveNode(c fiber.Ctx) error {
	id := c.Params("id")

	if h.store.Snapshot().NodeByID(id) == nil {
		return notFound(c, "Node not found")
	}

	var req MoveNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	h.store.MoveNode(c.Context(), id, models.Position{X: req.PositionX, Y: req.PositionY})

	return c.JSON(TransformNodeResponse(h.store.Snapshot().NodeByID(id)))
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	id := c.Params("id")

	if h.store.Snapshot().NodeByID(id) == nil {
		return notFound(c, "Node not found")
	}

	h.store.RemoveNode(c.Context(), id)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ConnectNodes(c fiber.Ctx) error {
	var req ConnectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	snapshot := h.store.Snapshot()
	if snapshot.NodeByID(req.Source) == nil || snapshot.NodeByID(req.Target) == nil {
		return notFound(c, "Source or target node not found")
	}

	h.store.AddEdge(c.Context(), req.Source, req.Target)

	return c.Status(fiber.StatusCreated).JSON(TransformGraphResponse(h.store.Snapshot()))
}

func (h *APIHandlers) ClearGraph(c fiber.Ctx) error {
	h.store.Clear(c.Context())

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) Execute(c fiber.Ctx) error {
	record, err := h.executor.Execute(c.Context())
	if err != nil {
		return handleExecuteError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) LatestResults(c fiber.Ctx) error {
	record, err := h.persistence.LatestResults(c.Context())
	if err != nil {
		return handleResultsError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) FetchLogs(c fiber.Ctx) error {
	var req FetchLogsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.Lines == 0 {
		req.Lines = 100
	}

	logs, err := h.logs.FetchLogs(c.Context(), req.Lines)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"logs": logs})
}

func (h *APIHandlers) Roles(c fiber.Ctx) error {
	return c.JSON(registry.Descriptors())
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError

		h.logger.Error("Persistence health check failed", "error", err)
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}
