// Package services implements the synchronous boundary the ingress layer
// consumes: execution creation, cancellation, and the read model.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flowgraph-io/flowgraph/pkg/events"
	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/queue"
)

var (
	// ErrWorkflowNotFound is returned when the target workflow does not exist.
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

	// ErrExecutionNotFound is returned when no execution record matches.
	ErrExecutionNotFound = persistence.ErrExecutionNotFound

	// ErrExecutionFinished is returned when stopping an execution that
	// already reached a terminal state.
	ErrExecutionFinished = errors.New("execution already finished")

	// ErrWorkflowInactive is returned when executing a deactivated workflow.
	ErrWorkflowInactive = errors.New("workflow is not active")
)

// ExecutionReceipt is the synchronous answer to an execute request: the run
// itself happens asynchronously on a worker.
type ExecutionReceipt struct {
	ExecutionID string `json:"executionId"`
	WorkflowID  string `json:"workflowId"`
	Status      string `json:"status"`
}

type Execution struct {
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	dispatcher queue.Dispatcher
	logger     *slog.Logger
}

// NewExecution creates the execution service.
func NewExecution(
	workflows persistence.WorkflowRepository,
	executions persistence.ExecutionRepository,
	dispatcher queue.Dispatcher,
	logger *slog.Logger,
) *Execution {
	if logger == nil {
		logger = slog.Default()
	}

	return &Execution{
		workflows:  workflows,
		executions: executions,
		dispatcher: dispatcher,
		logger:     logger.With("module", "execution_service"),
	}
}

// ExecuteWorkflow creates a running execution record for the workflow and
// enqueues its job. It returns as soon as the job is accepted by the queue.
func (s *Execution) ExecuteWorkflow(ctx context.Context, workflowID, userID, mode string, executionData any) (*ExecutionReceipt, error) {
	workflow, err := s.workflows.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
	}

	if !workflow.IsActive && mode != models.ExecutionModeManual {
		return nil, ErrWorkflowInactive
	}

	if mode == "" {
		mode = models.ExecutionModeManual
	}

	// Webhook ingress has no authenticated caller; the run is attributed to
	// the workflow's owner.
	if userID == "" {
		userID = workflow.OwnerID
	}

	execution := models.NewExecution(uuid.NewString(), workflowID, userID, mode)
	if err := s.executions.CreateExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	job := events.NewExecutionJob(execution.ID, workflowID, userID, executionData)
	if err := s.dispatcher.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue execution %s: %w", execution.ID, err)
	}

	s.logger.Info("Execution queued", "execution_id", execution.ID, "workflow_id", workflowID, "mode", mode)

	return &ExecutionReceipt{
		ExecutionID: execution.ID,
		WorkflowID:  workflowID,
		Status:      "queued",
	}, nil
}

// StopExecution marks a non-terminal execution as canceled. A worker already
// mid-traversal observes the canceled record before its next node and stops;
// stopping a finished execution is a conflict.
func (s *Execution) StopExecution(ctx context.Context, executionID string) (*models.Execution, error) {
	execution, err := s.executions.ExecutionByID(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load execution %s: %w", executionID, err)
	}

	if execution.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrExecutionFinished, executionID, execution.Status)
	}

	now := time.Now().UTC()
	execution.Status = models.ExecutionStatusCanceled
	execution.FinishedAt = &now
	execution.UpdatedAt = now

	if err := s.executions.UpdateExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to cancel execution %s: %w", executionID, err)
	}

	s.logger.Info("Execution canceled", "execution_id", executionID)

	return execution, nil
}

// GetExecution returns one execution record.
func (s *Execution) GetExecution(ctx context.Context, executionID string) (*models.Execution, error) {
	execution, err := s.executions.ExecutionByID(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load execution %s: %w", executionID, err)
	}

	return execution, nil
}

// ListExecutions returns the workflow's executions, newest first.
func (s *Execution) ListExecutions(ctx context.Context, workflowID, userID string, limit int) ([]*models.Execution, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	executions, err := s.executions.ExecutionsByWorkflowID(ctx, workflowID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for workflow %s: %w", workflowID, err)
	}

	return executions, nil
}

// Stats returns the user's execution counts grouped by status.
func (s *Execution) Stats(ctx context.Context, userID string) (map[string]int, error) {
	stats, err := s.executions.ExecutionStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute execution stats: %w", err)
	}

	return stats, nil
}
