package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/events"
	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
	"github.com/flowgraph-io/flowgraph/pkg/registry"
	"github.com/flowgraph-io/flowgraph/pkg/services"
	"github.com/flowgraph-io/flowgraph/pkg/web"
)

type nullDispatcher struct{}

func (nullDispatcher) Enqueue(context.Context, *events.ExecutionJob) error { return nil }

func setupTestApp(t *testing.T) (*fiber.App, *file.WorkflowRepository, *file.ExecutionRepository) {
	t.Helper()

	root := t.TempDir()
	workflows := file.NewWorkflowRepository(root)
	executions := file.NewExecutionRepository(root)

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes(registry.Deps{})

	executionService := services.NewExecution(workflows, executions, nullDispatcher{}, slog.Default())
	handlers := web.NewAPIHandlers(
		executionService,
		workflows,
		reg,
		validator.New(validator.WithRequiredStructEnabled()),
		slog.Default(),
	)

	return web.NewApp(handlers), workflows, executions
}

func saveWorkflow(t *testing.T, workflows *file.WorkflowRepository, wf *models.Workflow) {
	t.Helper()
	require.NoError(t, workflows.SaveWorkflow(context.Background(), wf))
}

func TestExecuteWorkflowEndpoint(t *testing.T) {
	app, workflows, executions := setupTestApp(t)

	saveWorkflow(t, workflows, &models.Workflow{
		ID: "wf-1", Name: "pipeline", OwnerID: "user-1", IsActive: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/workflows/wf-1/execute", bytes.NewBufferString(`{"city":"Lisbon"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var receipt services.ExecutionReceipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, "queued", receipt.Status)
	require.NotEmpty(t, receipt.ExecutionID)

	record, err := executions.ExecutionByID(context.Background(), receipt.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, record.Status)
}

func TestExecuteWorkflowEndpointNotFound(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/workflows/missing/execute", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecuteWorkflowEndpointRejectsInvalidWorkflow(t *testing.T) {
	app, workflows, executions := setupTestApp(t)

	// No owner and an id-less node: structurally broken, must not run.
	saveWorkflow(t, workflows, &models.Workflow{
		ID: "wf-broken", Name: "broken", IsActive: true,
		Nodes: []*models.WorkflowNode{{Type: "trigger"}},
	})

	req := httptest.NewRequest(http.MethodPost, "/workflows/wf-broken/execute", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	stored, err := executions.ExecutionsByWorkflowID(context.Background(), "wf-broken", "", 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStopExecutionEndpoint(t *testing.T) {
	app, _, executions := setupTestApp(t)
	ctx := context.Background()

	require.NoError(t, executions.CreateExecution(ctx, models.NewExecution("exec-1", "wf-1", "user-1", models.ExecutionModeManual)))

	req := httptest.NewRequest(http.MethodPost, "/executions/exec-1/stop", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	record, err := executions.ExecutionByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCanceled, record.Status)

	// Stopping again conflicts.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/executions/exec-1/stop", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetExecutionEndpoint(t *testing.T) {
	app, _, executions := setupTestApp(t)

	require.NoError(t, executions.CreateExecution(context.Background(), models.NewExecution("exec-1", "wf-1", "user-1", models.ExecutionModeManual)))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/executions/exec-1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "exec-1", view["id"])
	assert.Equal(t, "running", view["status"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/executions/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhookEndpoint(t *testing.T) {
	app, workflows, executions := setupTestApp(t)

	saveWorkflow(t, workflows, &models.Workflow{
		ID: "wf-hook", Name: "hooked", OwnerID: "user-1", IsActive: true,
		Nodes: []*models.WorkflowNode{
			{
				ID:   "hook",
				Type: "webhook",
				Data: models.NodeData{Config: map[string]any{
					"path":           "orders",
					"method":         "POST",
					"authentication": "headerAuth",
					"authKey":        "X-Hook-Secret",
					"authValue":      "s3cret",
				}},
			},
		},
	})

	// Missing secret is rejected.
	req := httptest.NewRequest(http.MethodPost, "/webhooks/wf-hook/orders", bytes.NewBufferString(`{"orderId":42}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong path is a 404.
	req = httptest.NewRequest(http.MethodPost, "/webhooks/wf-hook/payments", nil)
	req.Header.Set("X-Hook-Secret", "s3cret")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Matching path, method, and secret queues an execution.
	req = httptest.NewRequest(http.MethodPost, "/webhooks/wf-hook/orders", bytes.NewBufferString(`{"orderId":42}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hook-Secret", "s3cret")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var receipt services.ExecutionReceipt
	require.NoError(t, json.Unmarshal(body, &receipt))

	record, err := executions.ExecutionByID(context.Background(), receipt.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionModeWebhook, record.Mode)
	assert.Equal(t, "user-1", record.UserID)
}

func TestExecutionStatsEndpoint(t *testing.T) {
	app, _, executions := setupTestApp(t)
	ctx := context.Background()

	require.NoError(t, executions.CreateExecution(ctx, models.NewExecution("exec-1", "wf-1", "user-1", models.ExecutionModeManual)))

	req := httptest.NewRequest(http.MethodGet, "/executions/stats", nil)
	req.Header.Set("X-User-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats["running"])
}
