// Package scheduler registers cron entries for workflows with an enabled
// schedule node and enqueues a fresh execution on every firing.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/flowgraph-io/flowgraph/pkg/events"
	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/queue"
)

// cronParser accepts the 6-field seconds-precision pattern produced by
// IntervalToCron and by raw cronExpression configs.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

type Scheduler struct {
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	dispatcher queue.Dispatcher
	logger     *slog.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewScheduler(
	workflows persistence.WorkflowRepository,
	executions persistence.ExecutionRepository,
	dispatcher queue.Dispatcher,
	logger *slog.Logger,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	cronLogger := cron.DefaultLogger

	return &Scheduler{
		workflows:  workflows,
		executions: executions,
		dispatcher: dispatcher,
		logger:     logger.With("module", "scheduler"),
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(
				cron.SkipIfStillRunning(cronLogger),
				cron.Recover(cronLogger),
			),
		),
		entries: make(map[string]cron.EntryID),
	}
}

// Start scans all workflows for enabled schedule nodes, registers them, and
// starts the cron loop. One workflow's bad schedule never blocks the others.
func (s *Scheduler) Start(ctx context.Context) error {
	workflows, err := s.workflows.Workflows(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan workflows for schedules: %w", err)
	}

	for _, workflow := range workflows {
		if scheduleNode(workflow) == nil {
			continue
		}

		if err := s.Schedule(workflow); err != nil {
			s.logger.Error("Skipping workflow with invalid schedule", "workflow_id", workflow.ID, "error", err)
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", "scheduled", len(s.ScheduledWorkflows()))

	return nil
}

// Stop stops the cron loop and waits for in-flight firings to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Schedule registers the workflow's schedule node, atomically replacing any
// prior entry for the same workflow id.
func (s *Scheduler) Schedule(workflow *models.Workflow) error {
	node := scheduleNode(workflow)
	if node == nil {
		return &ScheduleConfigError{WorkflowID: workflow.ID, Reason: "no enabled schedule node"}
	}

	expr, err := cronExpression(workflow.ID, node.Data.Config)
	if err != nil {
		return err
	}

	if _, err := cronParser.Parse(expr); err != nil {
		return &ScheduleConfigError{WorkflowID: workflow.ID, Reason: err.Error()}
	}

	workflowID := workflow.ID
	ownerID := workflow.OwnerID
	config := node.Data.Config

	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.entries[workflowID]; ok {
		s.cron.Remove(prior)
	}

	entryID, err := s.cron.AddFunc(expr, func() {
		s.fire(workflowID, ownerID, config)
	})
	if err != nil {
		return &ScheduleConfigError{WorkflowID: workflowID, Reason: err.Error()}
	}

	s.entries[workflowID] = entryID
	s.logger.Info("Scheduled workflow", "workflow_id", workflowID, "cron", expr)

	return nil
}

// Unschedule removes the workflow's cron entry, if any.
func (s *Scheduler) Unschedule(workflowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[workflowID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, workflowID)
		s.logger.Info("Unscheduled workflow", "workflow_id", workflowID)
	}
}

// IsScheduled reports whether the workflow has a registered cron entry.
func (s *Scheduler) IsScheduled(workflowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[workflowID]

	return ok
}

// ScheduledWorkflows lists the workflow ids with a cron entry, sorted.
func (s *Scheduler) ScheduledWorkflows() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// fire creates one execution record and enqueues its job. Failures are
// logged, never propagated into the cron loop.
func (s *Scheduler) fire(workflowID, ownerID string, scheduleConfig map[string]any) {
	ctx := context.Background()
	executionID := uuid.NewString()

	logger := s.logger.With("workflow_id", workflowID, "execution_id", executionID)

	execution := models.NewExecution(executionID, workflowID, ownerID, models.ExecutionModeSchedule)
	if err := s.executions.CreateExecution(ctx, execution); err != nil {
		logger.Error("Failed to create scheduled execution", "error", err)

		return
	}

	inputData := map[string]any{
		"scheduledAt":    time.Now().UTC().Format(time.RFC3339),
		"scheduleConfig": scheduleConfig,
	}

	job := events.NewExecutionJob(executionID, workflowID, ownerID, inputData)
	if err := s.dispatcher.Enqueue(ctx, job); err != nil {
		logger.Error("Failed to enqueue scheduled execution", "error", err)

		return
	}

	logger.Info("Scheduled execution enqueued")
}

// scheduleNode returns the workflow's first enabled schedule node, or nil.
func scheduleNode(workflow *models.Workflow) *models.WorkflowNode {
	for _, node := range workflow.Nodes {
		if node.Type != "schedule" {
			continue
		}

		if enabled, _ := node.Data.Config["enabled"].(bool); enabled {
			return node
		}
	}

	return nil
}

// cronExpression derives the cron pattern from a schedule node config: a raw
// cronExpression wins, otherwise {interval, unit} is converted. An optional
// timezone is applied as a CRON_TZ prefix.
func cronExpression(workflowID string, config map[string]any) (string, error) {
	expr, _ := config["cronExpression"].(string)

	if scheduleType, _ := config["scheduleType"].(string); scheduleType == "cron" || expr != "" {
		if expr == "" {
			return "", &ScheduleConfigError{WorkflowID: workflowID, Reason: "cronExpression is required for cron schedules"}
		}
	} else {
		interval := 1
		if raw, ok := config["interval"].(float64); ok {
			interval = int(raw)
		} else if raw, ok := config["interval"].(int); ok {
			interval = raw
		}

		unit, _ := config["unit"].(string)
		if unit == "" {
			unit = "minutes"
		}

		converted, err := IntervalToCron(interval, unit)
		if err != nil {
			return "", &ScheduleConfigError{WorkflowID: workflowID, Reason: err.Error()}
		}

		expr = converted
	}

	if timezone, _ := config["timezone"].(string); timezone != "" {
		expr = "CRON_TZ=" + timezone + " " + expr
	}

	return expr, nil
}
