package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/events"
	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
	"github.com/flowgraph-io/flowgraph/pkg/queue"
	"github.com/flowgraph-io/flowgraph/pkg/registry"
	"github.com/flowgraph-io/flowgraph/pkg/workflow"
)

func TestWorkerRunsQueuedExecution(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	workflows := file.NewWorkflowRepository(root)
	executions := file.NewExecutionRepository(root)

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes(registry.Deps{})

	q := queue.NewMemoryQueue(slog.Default())
	defer func() { _ = q.Close() }()

	executor := workflow.NewExecutor(workflows, executions, reg, slog.Default())
	worker := NewWorker(q, q, executor, "worker-test", nil, slog.Default())
	require.NoError(t, worker.Run(ctx))

	wf := &models.Workflow{
		ID:    "wf-1",
		Name:  "single trigger",
		Nodes: []*models.WorkflowNode{{ID: "trigger", Type: "trigger"}},
	}
	require.NoError(t, workflows.SaveWorkflow(ctx, wf))

	execution := models.NewExecution("exec-1", "wf-1", "user-1", models.ExecutionModeManual)
	require.NoError(t, executions.CreateExecution(ctx, execution))

	job := events.NewExecutionJob("exec-1", "wf-1", "user-1", map[string]any{"go": true})
	require.NoError(t, q.Enqueue(ctx, job))

	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		record, err := executions.ExecutionByID(ctx, "exec-1")
		require.NoError(t, err)

		if record.Status.IsTerminal() {
			assert.Equal(t, models.ExecutionStatusSuccess, record.Status)
			assert.Contains(t, record.Data.ResultData.RunData, "trigger")

			return
		}

		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("execution never reached a terminal state")
}

type captureEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *captureEventPublisher) PublishEvent(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *captureEventPublisher) snapshot() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]events.Event(nil), p.events...)
}

func TestWorkerPublishesLifecycleEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	workflows := file.NewWorkflowRepository(root)
	executions := file.NewExecutionRepository(root)

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes(registry.Deps{})

	q := queue.NewMemoryQueue(slog.Default())
	defer func() { _ = q.Close() }()

	publisher := &captureEventPublisher{}

	executor := workflow.NewExecutor(workflows, executions, reg, slog.Default())
	worker := NewWorker(q, publisher, executor, "worker-9", nil, slog.Default())
	require.NoError(t, worker.Run(ctx))

	wf := &models.Workflow{
		ID:    "wf-1",
		Name:  "single trigger",
		Nodes: []*models.WorkflowNode{{ID: "trigger", Type: "trigger"}},
	}
	require.NoError(t, workflows.SaveWorkflow(ctx, wf))

	execution := models.NewExecution("exec-ok", "wf-1", "user-1", models.ExecutionModeManual)
	require.NoError(t, executions.CreateExecution(ctx, execution))

	require.NoError(t, q.Enqueue(ctx, events.NewExecutionJob("exec-ok", "wf-1", "user-1", nil)))
	// A job for an execution that was never created fails in the executor.
	require.NoError(t, q.Enqueue(ctx, events.NewExecutionJob("exec-missing", "wf-1", "user-1", nil)))

	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		published := publisher.snapshot()
		if len(published) < 2 {
			time.Sleep(20 * time.Millisecond)

			continue
		}

		var completed *events.ExecutionCompleted

		var failed *events.ExecutionFailed

		for _, event := range published {
			switch typed := event.(type) {
			case *events.ExecutionCompleted:
				completed = typed
			case *events.ExecutionFailed:
				failed = typed
			}
		}

		require.NotNil(t, completed)
		assert.Equal(t, "exec-ok", completed.ExecutionID)
		assert.Equal(t, "worker-9", completed.WorkerID)
		assert.Equal(t, events.ExecutionCompletedEvent, completed.GetType())

		require.NotNil(t, failed)
		assert.Equal(t, "exec-missing", failed.ExecutionID)
		assert.Equal(t, "worker-9", failed.WorkerID)
		assert.Contains(t, failed.Error, "exec-missing")

		return
	}

	t.Fatal("lifecycle events were never published")
}

func TestFailedNodeAttributes(t *testing.T) {
	nodeErr := &workflow.NodeExecutionError{
		NodeID:   "boom",
		NodeType: "code",
		Err:      assert.AnError,
	}

	attrs := failedNodeAttributes(nodeErr)
	require.Len(t, attrs, 2)
	assert.Equal(t, "boom", attrs[0].Value.AsString())
	assert.Equal(t, "code", attrs[1].Value.AsString())

	assert.Empty(t, failedNodeAttributes(assert.AnError))
}
