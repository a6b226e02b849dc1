package workflow_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
	"github.com/flowgraph-io/flowgraph/pkg/registry"
	"github.com/flowgraph-io/flowgraph/pkg/workflow"
)

type testHarness struct {
	executor   *workflow.Executor
	workflows  *file.WorkflowRepository
	executions *file.ExecutionRepository
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	root := t.TempDir()
	workflows := file.NewWorkflowRepository(root)
	executions := file.NewExecutionRepository(root)

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes(registry.Deps{})

	return &testHarness{
		executor:   workflow.NewExecutor(workflows, executions, reg, slog.Default()),
		workflows:  workflows,
		executions: executions,
	}
}

// run saves the workflow, creates a running execution, executes it, and
// returns the reloaded record along with the executor error.
func (h *testHarness) run(t *testing.T, wf *models.Workflow, input any) (*models.Execution, error) {
	t.Helper()

	ctx := context.Background()

	require.NoError(t, h.workflows.SaveWorkflow(ctx, wf))

	execution := models.NewExecution("exec-1", wf.ID, "user-1", models.ExecutionModeManual)
	require.NoError(t, h.executions.CreateExecution(ctx, execution))

	execErr := h.executor.Execute(ctx, execution.ID, input)

	record, err := h.executions.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)

	return record, execErr
}

func node(id, nodeType string, config map[string]any) *models.WorkflowNode {
	return &models.WorkflowNode{
		ID:   id,
		Type: nodeType,
		Data: models.NodeData{Config: config},
	}
}

func conn(source, target string) *models.Connection {
	return &models.Connection{Source: source, Target: target}
}

func handleConn(source, target, handle string) *models.Connection {
	return &models.Connection{Source: source, Target: target, SourceHandle: handle}
}

func TestExecuteSingleNode(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:    "wf-1",
		Name:  "single",
		Nodes: []*models.WorkflowNode{node("trigger", "trigger", nil)},
	}

	record, err := h.run(t, wf, map[string]any{"hello": "world"})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusSuccess, record.Status)
	require.NotNil(t, record.FinishedAt)
	require.Len(t, record.Data.ResultData.RunData, 1)

	trace := record.Data.ResultData.RunData["trigger"]
	require.NotNil(t, trace)
	assert.Equal(t, "trigger", trace.NodeType)
	assert.Equal(t, map[string]any{"hello": "world"}, trace.Data.Data)
}

func TestExecuteTriggerHTTPRequestSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-http",
		Name: "fetch and tag",
		Nodes: []*models.WorkflowNode{
			node("trigger", "trigger", nil),
			node("fetch", "httpRequest", map[string]any{"url": server.URL}),
			node("tag", "set", map[string]any{
				"mode":   "set",
				"values": map[string]any{"tag": "x"},
			}),
		},
		Connections: []*models.Connection{
			conn("trigger", "fetch"),
			conn("fetch", "tag"),
		},
	}

	record, err := h.run(t, wf, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusSuccess, record.Status)

	trace := record.Data.ResultData.RunData["tag"]
	require.NotNil(t, trace)
	assert.Equal(t, map[string]any{"id": float64(1), "tag": "x"}, trace.Data.Data)
}

func TestExecuteBranchingFollowsMatchingHandleOnly(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-if",
		Name: "branch",
		Nodes: []*models.WorkflowNode{
			node("trigger", "trigger", nil),
			node("check", "if", map[string]any{
				"conditions": []any{
					map[string]any{"field": "score", "operator": "greaterThan", "value": 5},
				},
			}),
			node("high", "set", map[string]any{"values": map[string]any{"level": "high"}}),
			node("low", "set", map[string]any{"values": map[string]any{"level": "low"}}),
		},
		Connections: []*models.Connection{
			conn("trigger", "check"),
			handleConn("check", "high", "true"),
			handleConn("check", "low", "false"),
		},
	}

	record, err := h.run(t, wf, map[string]any{"score": 10})
	require.NoError(t, err)

	assert.Contains(t, record.Data.ResultData.RunData, "high")
	assert.NotContains(t, record.Data.ResultData.RunData, "low")
}

func TestExecuteFanInMergesAllPredecessors(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-merge",
		Name: "fan in",
		Nodes: []*models.WorkflowNode{
			node("trigger", "trigger", nil),
			node("left", "set", map[string]any{"values": map[string]any{"a": 1}}),
			node("right", "set", map[string]any{"values": map[string]any{"b": 2}}),
			node("join", "merge", map[string]any{"mode": "merge"}),
		},
		Connections: []*models.Connection{
			conn("trigger", "left"),
			conn("trigger", "right"),
			conn("left", "join"),
			conn("right", "join"),
		},
	}

	record, err := h.run(t, wf, map[string]any{})
	require.NoError(t, err)

	trace := record.Data.ResultData.RunData["join"]
	require.NotNil(t, trace)

	joined, ok := trace.Data.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), joined["a"])
	assert.Equal(t, float64(2), joined["b"])
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-retry",
		Name: "retry",
		Nodes: []*models.WorkflowNode{
			node("fetch", "httpRequest", map[string]any{
				"url":         server.URL,
				"retryOnFail": true,
				"retryCount":  float64(3),
			}),
		},
	}

	record, err := h.run(t, wf, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusSuccess, record.Status)

	trace := record.Data.ResultData.RunData["fetch"]
	require.NotNil(t, trace)
	assert.Equal(t, float64(3), trace.Data.Metadata["attempt"])
}

func TestExecuteNodeFailureAbortsTraversal(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-fail",
		Name: "failing code",
		Nodes: []*models.WorkflowNode{
			node("trigger", "trigger", nil),
			node("boom", "code", map[string]any{"code": `throw new Error("kaput")`}),
			node("after", "set", map[string]any{"values": map[string]any{"x": 1}}),
		},
		Connections: []*models.Connection{
			conn("trigger", "boom"),
			conn("boom", "after"),
		},
	}

	record, err := h.run(t, wf, nil)
	require.Error(t, err)

	var nodeErr *workflow.NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "boom", nodeErr.NodeID)

	assert.Equal(t, models.ExecutionStatusError, record.Status)
	require.NotNil(t, record.FinishedAt)

	trace := record.Data.ResultData.RunData["boom"]
	require.NotNil(t, trace)
	require.NotNil(t, trace.Error)
	assert.Contains(t, trace.Error.Message, "kaput")

	assert.NotContains(t, record.Data.ResultData.RunData, "after")
}

func TestExecuteUnknownNodeTypePassesThrough(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-unknown",
		Name: "unknown type",
		Nodes: []*models.WorkflowNode{
			node("trigger", "trigger", nil),
			node("mystery", "hologram", nil),
		},
		Connections: []*models.Connection{conn("trigger", "mystery")},
	}

	record, err := h.run(t, wf, map[string]any{"keep": "me"})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusSuccess, record.Status)

	trace := record.Data.ResultData.RunData["mystery"]
	require.NotNil(t, trace)
	assert.Equal(t, map[string]any{"keep": "me"}, trace.Data.Data)
}

func TestExecuteNoStartNode(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-cycle",
		Name: "pure cycle",
		Nodes: []*models.WorkflowNode{
			node("a", "set", map[string]any{"values": map[string]any{}}),
			node("b", "set", map[string]any{"values": map[string]any{}}),
		},
		Connections: []*models.Connection{conn("a", "b"), conn("b", "a")},
	}

	record, err := h.run(t, wf, nil)
	require.ErrorIs(t, err, workflow.ErrNoStartNode)

	assert.Equal(t, models.ExecutionStatusError, record.Status)
	require.NotNil(t, record.FinishedAt)
}

func TestExecuteTerminalExecutionIsNoOp(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	wf := &models.Workflow{
		ID:    "wf-done",
		Name:  "already done",
		Nodes: []*models.WorkflowNode{node("trigger", "trigger", nil)},
	}
	require.NoError(t, h.workflows.SaveWorkflow(ctx, wf))

	execution := models.NewExecution("exec-done", wf.ID, "user-1", models.ExecutionModeManual)
	now := time.Now().UTC()
	execution.Status = models.ExecutionStatusSuccess
	execution.FinishedAt = &now
	require.NoError(t, h.executions.CreateExecution(ctx, execution))

	require.NoError(t, h.executor.Execute(ctx, execution.ID, nil))

	record, err := h.executions.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Empty(t, record.Data.ResultData.RunData)
}

func TestExecuteExpressionWiresPriorOutput(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-expr",
		Name: "expression wiring",
		Nodes: []*models.WorkflowNode{
			node("trigger", "trigger", nil),
			node("label", "set", map[string]any{
				"values": map[string]any{"city": "{{$node.trigger.data.city}}"},
			}),
		},
		Connections: []*models.Connection{conn("trigger", "label")},
	}

	record, err := h.run(t, wf, map[string]any{"city": "Lisbon"})
	require.NoError(t, err)

	trace := record.Data.ResultData.RunData["label"]
	require.NotNil(t, trace)

	data, ok := trace.Data.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lisbon", data["city"])
}

func TestExecuteKeepsCanceledStatusOverSuccess(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	wf := &models.Workflow{
		ID:   "wf-slow",
		Name: "slow finish",
		Nodes: []*models.WorkflowNode{
			node("wait", "delay", map[string]any{"amount": 500.0, "unit": "milliseconds"}),
		},
	}
	require.NoError(t, h.workflows.SaveWorkflow(ctx, wf))

	execution := models.NewExecution("exec-1", wf.ID, "user-1", models.ExecutionModeManual)
	require.NoError(t, h.executions.CreateExecution(ctx, execution))

	// Cancel the record while the only node is still sleeping.
	go func() {
		time.Sleep(150 * time.Millisecond)

		record, err := h.executions.ExecutionByID(ctx, execution.ID)
		if err != nil {
			return
		}

		now := time.Now().UTC()
		record.Status = models.ExecutionStatusCanceled
		record.FinishedAt = &now
		_ = h.executions.UpdateExecution(ctx, record)
	}()

	require.NoError(t, h.executor.Execute(ctx, execution.ID, nil))

	record, err := h.executions.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCanceled, record.Status)
}

func TestExecuteInvalidConfigFailsValidation(t *testing.T) {
	h := newTestHarness(t)

	wf := &models.Workflow{
		ID:   "wf-bad-config",
		Name: "bad delay config",
		Nodes: []*models.WorkflowNode{
			node("wait", "delay", map[string]any{"amount": 2.0, "unit": "fortnights"}),
		},
	}

	record, err := h.run(t, wf, nil)

	var nodeErr *workflow.NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "wait", nodeErr.NodeID)
	assert.Contains(t, nodeErr.Err.Error(), "invalid delay config")

	assert.Equal(t, models.ExecutionStatusError, record.Status)
	require.NotNil(t, record.FinishedAt)
}
