package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowgraph-io/flowgraph/pkg/events"
	"github.com/flowgraph-io/flowgraph/pkg/queue"
	"github.com/flowgraph-io/flowgraph/pkg/tracer"
	"github.com/flowgraph-io/flowgraph/pkg/workflow"
)

// Worker consumes execution jobs and drives the traversal engine. Failures
// are captured into the execution record by the executor, so the queue is
// never asked to retry them. Each finished run is announced on the events
// topic as a completed or failed notification.
type Worker struct {
	consumer  queue.Consumer
	publisher queue.EventPublisher
	executor  *workflow.Executor
	workerID  string
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewWorker(
	consumer queue.Consumer,
	publisher queue.EventPublisher,
	executor *workflow.Executor,
	workerID string,
	workerTracer trace.Tracer,
	logger *slog.Logger,
) *Worker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		consumer:  consumer,
		publisher: publisher,
		executor:  executor,
		workerID:  workerID,
		tracer:    workerTracer,
		logger:    logger.With("module", "worker", "worker_id", workerID),
	}
}

// Run subscribes for jobs and blocks until the subscription is set up; jobs
// are then processed until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	return w.consumer.Subscribe(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, job *events.ExecutionJob) error {
	logger := w.logger.With("execution_id", job.ExecutionID, "workflow_id", job.WorkflowID)
	logger.Info("Picked up execution job")

	var span trace.Span
	if w.tracer != nil {
		ctx, span = tracer.StartSpan(ctx, w.tracer, "workflow.execute",
			attribute.String(tracer.WorkflowIDKey, job.WorkflowID),
			attribute.String(tracer.ExecutionIDKey, job.ExecutionID),
			attribute.String(tracer.WorkerIDKey, w.workerID),
		)
		defer span.End()
	}

	started := time.Now()
	err := w.executor.Execute(ctx, job.ExecutionID, job.ExecutionData)
	elapsed := time.Since(started)

	if err != nil {
		// The terminal error state is already persisted; acking here keeps
		// the queue from redelivering a job that would no-op anyway.
		logger.Error("Execution failed", "error", err)

		if span != nil {
			tracer.SetError(span, err, failedNodeAttributes(err)...)
		}

		failed := events.NewExecutionFailed(job.ExecutionID, job.WorkflowID, err.Error(), elapsed)
		failed.WorkerID = w.workerID
		w.publish(ctx, logger, failed)

		return nil
	}

	completed := events.NewExecutionCompleted(job.ExecutionID, job.WorkflowID, elapsed)
	completed.WorkerID = w.workerID
	w.publish(ctx, logger, completed)

	return nil
}

// publish is best-effort: lifecycle notifications never fail the job.
func (w *Worker) publish(ctx context.Context, logger *slog.Logger, event events.Event) {
	if w.publisher == nil {
		return
	}

	if err := w.publisher.PublishEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish lifecycle event", "event_type", event.GetType(), "error", err)
	}
}

func failedNodeAttributes(err error) []attribute.KeyValue {
	var nodeErr *workflow.NodeExecutionError
	if !errors.As(err, &nodeErr) {
		return nil
	}

	return []attribute.KeyValue{
		attribute.String(tracer.NodeIDKey, nodeErr.NodeID),
		attribute.String(tracer.NodeTypeKey, nodeErr.NodeType),
	}
}
