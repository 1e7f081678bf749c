package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgraph/opsgraph/pkg/engine"
	"github.com/opsgraph/opsgraph/pkg/graph"
	"github.com/opsgraph/opsgraph/pkg/models"
	"github.com/opsgraph/opsgraph/pkg/persistence/file"
	"github.com/opsgraph/opsgraph/pkg/web"
)

type stubExecutor struct {
	record *models.ExecutionRecord
	err    error
}

func (s *stubExecutor) Execute(_ context.Context) (*models.ExecutionRecord, error) {
	return s.record, s.err
}

type stubLogFetcher struct {
	logs string
	err  error
}

func (s *stubLogFetcher) FetchLogs(_ context.Context, _ int) (string, error) {
	return s.logs, s.err
}

type testEnv struct {
	app   *fiber.App
	store *graph.Store
}

func setupTestApp(t *testing.T, executor web.Executor, logs web.LogFetcher) *testEnv {
	t.Helper()

	persist := file.NewPersistence(t.TempDir())
	store := graph.NewStore(persist, slog.Default())
	validate := validator.New(validator.WithRequiredStructEnabled())

	handlers := web.NewAPIHandlers(store, executor, logs, persist, validate, slog.Default())

	app := fiber.New()
	handlers.Register(app)

	return &testEnv{app: app, store: store}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()

	var body []byte

	if payload != nil {
		if str, ok := payload.(string); ok {
			body = []byte(str)
		} else {
			var err error

			body, err = json.Marshal(payload)
			require.NoError(t, err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func TestAddNode(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodPost, "/graph/nodes", web.AddNodeRequest{
		Role:      "server",
		PositionX: 100,
		PositionY: 200,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var node web.NodeResponse

	decodeBody(t, resp, &node)
	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "server", node.Role)
	assert.Equal(t, "Server", node.Label)
	assert.Equal(t, "#3b82f6", node.Color)
	assert.InDelta(t, 100.0, node.PositionX, 0.001)
}

func TestAddNode_InvalidRole(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodPost, "/graph/nodes", web.AddNodeRequest{Role: "toaster"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddNode_MissingRole(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodPost, "/graph/nodes", map[string]any{"position_x": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateNodeConfig(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	id, err := env.store.AddNode(context.Background(), models.RoleServer, models.Position{})
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodPatch, "/graph/nodes/"+id+"/config",
		map[string]any{"api_endpoint": "host:9100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var node web.NodeResponse

	decodeBody(t, resp, &node)
	assert.Equal(t, "host:9100", node.Config.APIEndpoint)
}

func TestUpdateNodeConfig_UnknownField(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	id, err := env.store.AddNode(context.Background(), models.RoleServer, models.Position{})
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodPatch, "/graph/nodes/"+id+"/config",
		map[string]any{"shell_command": "rm -rf /"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateNodeConfig_BadEmail(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	id, err := env.store.AddNode(context.Background(), models.RoleSendMail, models.Position{})
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodPatch, "/graph/nodes/"+id+"/config",
		map[string]any{"recipient_email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateNodeConfig_UnknownNode(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodPatch, "/graph/nodes/nope/config",
		map[string]any{"api_endpoint": "host:9100"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConnectAndGetGraph(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})
	ctx := context.Background()

	serverID, err := env.store.AddNode(ctx, models.RoleServer, models.Position{})
	require.NoError(t, err)
	alertID, err := env.store.AddNode(ctx, models.RoleAlertAgent, models.Position{})
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodPost, "/graph/edges",
		web.ConnectRequest{Source: serverID, Target: alertID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodGet, "/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var g web.GraphResponse

	decodeBody(t, resp, &g)
	assert.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, serverID, g.Edges[0].Source)
}

func TestConnect_UnknownEndpoint(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodPost, "/graph/edges",
		web.ConnectRequest{Source: "ghost-1", Target: "ghost-2"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteNode(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	id, err := env.store.AddNode(context.Background(), models.RoleServer, models.Position{})
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodDelete, "/graph/nodes/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodDelete, "/graph/nodes/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecute_MapsEngineErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"validation", &engine.ValidationError{NodeID: "n1", Role: models.RoleServer, Field: "api_endpoint"}, http.StatusBadRequest},
		{"no active flows", engine.ErrNoActiveFlows, http.StatusUnprocessableEntity},
		{"in progress", engine.ErrExecutionInProgress, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestApp(t, &stubExecutor{err: tt.err}, &stubLogFetcher{})

			resp := doJSON(t, env.app, http.MethodPost, "/executions", nil)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestExecute_ReturnsRecord(t *testing.T) {
	record := &models.ExecutionRecord{
		ExecutionID: "exec-12345678",
		Results: []models.FlowResult{
			{FlowName: "Server→Alert", Status: models.StatusSuccess, Summary: "ok"},
		},
	}

	env := setupTestApp(t, &stubExecutor{record: record}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodPost, "/executions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.ExecutionRecord

	decodeBody(t, resp, &got)
	assert.Equal(t, "exec-12345678", got.ExecutionID)
	require.Len(t, got.Results, 1)
}

func TestLatestResults_EmptyStore(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodGet, "/executions/latest", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFetchLogs(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{logs: "line1\nline2"})

	resp := doJSON(t, env.app, http.MethodPost, "/logs/fetch", web.FetchLogsRequest{Lines: 50})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string

	decodeBody(t, resp, &body)
	assert.Equal(t, "line1\nline2", body["logs"])
}

func TestRolesPalette(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	resp := doJSON(t, env.app, http.MethodGet, "/roles", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var descriptors []map[string]any

	decodeBody(t, resp, &descriptors)
	assert.NotEmpty(t, descriptors)
}

func TestClearGraph(t *testing.T) {
	env := setupTestApp(t, &stubExecutor{}, &stubLogFetcher{})

	_, err := env.store.AddNode(context.Background(), models.RoleServer, models.Position{})
	require.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodDelete, "/graph", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, env.store.Snapshot().Nodes)
}
