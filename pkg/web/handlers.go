// Package web exposes the engine's HTTP surface: execution control, the
// execution read model, and the webhook ingress.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/registry"
	"github.com/flowgraph-io/flowgraph/pkg/services"
)

type APIHandlers struct {
	executions *services.Execution
	workflows  persistence.WorkflowRepository
	registry   *registry.Registry
	validator  *validator.Validate
	logger     *slog.Logger
}

func NewAPIHandlers(
	executions *services.Execution,
	workflows persistence.WorkflowRepository,
	reg *registry.Registry,
	validate *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandlers{
		executions: executions,
		workflows:  workflows,
		registry:   reg,
		validator:  validate,
		logger:     logger.With("module", "web"),
	}
}

// ExecuteWorkflow accepts a run request and returns as soon as the job is
// queued. The optional JSON body becomes the execution's input payload.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "workflow id is required")
	}

	var inputData any

	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &inputData); err != nil {
			return badRequest(c, "request body must be valid JSON")
		}
	}

	wf, err := h.workflows.WorkflowByID(c.Context(), workflowID)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.validateWorkflow(wf); err != nil {
		return badRequest(c, err.Error())
	}

	receipt, err := h.executions.ExecuteWorkflow(
		c.Context(), workflowID, c.Get("X-User-ID"), models.ExecutionModeManual, inputData,
	)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(receipt)
}

// StopExecution cancels a running execution, best-effort.
func (h *APIHandlers) StopExecution(c fiber.Ctx) error {
	executionID := c.Params("id")
	if executionID == "" {
		return badRequest(c, "execution id is required")
	}

	execution, err := h.executions.StopExecution(c.Context(), executionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(executionView(execution))
}

// GetExecution returns the execution's status, trace, and error detail.
func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	executionID := c.Params("id")
	if executionID == "" {
		return badRequest(c, "execution id is required")
	}

	execution, err := h.executions.GetExecution(c.Context(), executionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(executionView(execution))
}

// ListExecutions returns a workflow's executions, newest first.
func (h *APIHandlers) ListExecutions(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "workflow id is required")
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "limit must be an integer")
		}

		limit = parsed
	}

	executions, err := h.executions.ListExecutions(c.Context(), workflowID, c.Get("X-User-ID"), limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	views := make([]fiber.Map, 0, len(executions))
	for _, execution := range executions {
		views = append(views, executionView(execution))
	}

	return c.JSON(fiber.Map{"executions": views, "count": len(views)})
}

// ExecutionStats returns the caller's execution counts by status.
func (h *APIHandlers) ExecutionStats(c fiber.Ctx) error {
	stats, err := h.executions.Stats(c.Context(), c.Get("X-User-ID"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(stats)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"node_types": h.registry.NodeTypes(),
		"timestamp":  time.Now().UTC(),
	})
}

// validateWorkflow rejects graphs whose structural invariants are broken
// before any execution is created for them.
func (h *APIHandlers) validateWorkflow(wf *models.Workflow) error {
	if err := h.validator.Struct(wf); err != nil {
		h.logger.Warn("Workflow failed validation", "workflow_id", wf.ID, "error", err)

		return fmt.Errorf("workflow is not executable: %w", err)
	}

	return nil
}

// executionView is the read model shape surfaced to API consumers.
func executionView(execution *models.Execution) fiber.Map {
	return fiber.Map{
		"id":         execution.ID,
		"workflowId": execution.WorkflowID,
		"status":     execution.Status,
		"mode":       execution.Mode,
		"startedAt":  execution.StartedAt,
		"finishedAt": execution.FinishedAt,
		"duration":   execution.Duration().Milliseconds(),
		"data":       execution.Data,
		"error":      execution.Error,
	}
}
