package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgraph/opsgraph/pkg/cmd"
	"github.com/opsgraph/opsgraph/pkg/log"
	"github.com/opsgraph/opsgraph/pkg/persistence/file"
)

func TestAppServesRootAndHealth(t *testing.T) {
	logger := log.WithModule("api-test")
	persist := file.NewPersistence(t.TempDir())

	eventBus, err := cmd.NewEventBus("gochannel", logger)
	require.NoError(t, err)

	defer func() { _ = eventBus.Close() }()

	api := NewAPI(logger, persist, eventBus, "http://localhost:8000")
	app := api.App(context.Background())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/graph", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
