package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/events"
	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
)

type captureDispatcher struct {
	mu   sync.Mutex
	jobs []*events.ExecutionJob
}

func (d *captureDispatcher) Enqueue(_ context.Context, job *events.ExecutionJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.jobs = append(d.jobs, job)

	return nil
}

func (d *captureDispatcher) captured() []*events.ExecutionJob {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]*events.ExecutionJob(nil), d.jobs...)
}

func newTestScheduler(t *testing.T) (*Scheduler, *file.WorkflowRepository, *file.ExecutionRepository, *captureDispatcher) {
	t.Helper()

	root := t.TempDir()
	workflows := file.NewWorkflowRepository(root)
	executions := file.NewExecutionRepository(root)
	dispatcher := &captureDispatcher{}

	return NewScheduler(workflows, executions, dispatcher, slog.Default()), workflows, executions, dispatcher
}

func scheduledWorkflow(id string, config map[string]any) *models.Workflow {
	return &models.Workflow{
		ID:      id,
		Name:    "scheduled",
		OwnerID: "user-1",
		Nodes: []*models.WorkflowNode{
			{ID: "sched", Type: "schedule", Data: models.NodeData{Config: config}},
		},
	}
}

func TestIntervalToCron(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		unit     string
		want     string
		wantErr  bool
	}{
		{name: "every 10 seconds", interval: 10, unit: "seconds", want: "*/10 * * * * *"},
		{name: "every 5 minutes", interval: 5, unit: "minutes", want: "0 */5 * * * *"},
		{name: "every 6 hours", interval: 6, unit: "hours", want: "0 0 */6 * * *"},
		{name: "every 2 days", interval: 2, unit: "days", want: "0 0 0 */2 * *"},
		{name: "60 minutes is out of range", interval: 60, unit: "minutes", wantErr: true},
		{name: "24 hours is out of range", interval: 24, unit: "hours", wantErr: true},
		{name: "zero interval", interval: 0, unit: "minutes", wantErr: true},
		{name: "unknown unit", interval: 2, unit: "fortnights", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntervalToCron(tt.interval, tt.unit)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduleReplacesExistingEntry(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	wf := scheduledWorkflow("wf-1", map[string]any{
		"enabled":  true,
		"interval": float64(5),
		"unit":     "minutes",
	})

	require.NoError(t, s.Schedule(wf))
	require.NoError(t, s.Schedule(wf))

	assert.True(t, s.IsScheduled("wf-1"))
	assert.Equal(t, []string{"wf-1"}, s.ScheduledWorkflows())

	s.Unschedule("wf-1")
	assert.False(t, s.IsScheduled("wf-1"))
}

func TestScheduleRejectsInvalidConfig(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	var confErr *ScheduleConfigError

	err := s.Schedule(scheduledWorkflow("wf-1", map[string]any{
		"enabled":  true,
		"interval": float64(60),
		"unit":     "minutes",
	}))
	require.ErrorAs(t, err, &confErr)

	err = s.Schedule(scheduledWorkflow("wf-2", map[string]any{
		"enabled":      true,
		"scheduleType": "cron",
	}))
	require.ErrorAs(t, err, &confErr)

	err = s.Schedule(scheduledWorkflow("wf-3", map[string]any{"enabled": false}))
	require.ErrorAs(t, err, &confErr)

	assert.Empty(t, s.ScheduledWorkflows())
}

func TestScheduleAcceptsRawCronExpression(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	err := s.Schedule(scheduledWorkflow("wf-1", map[string]any{
		"enabled":        true,
		"scheduleType":   "cron",
		"cronExpression": "0 30 9 * * *",
		"timezone":       "Europe/Lisbon",
	}))
	require.NoError(t, err)
	assert.True(t, s.IsScheduled("wf-1"))
}

func TestFireCreatesAndEnqueuesExecution(t *testing.T) {
	s, _, executions, dispatcher := newTestScheduler(t)

	config := map[string]any{"enabled": true, "interval": float64(1), "unit": "minutes"}
	s.fire("wf-1", "user-1", config)

	jobs := dispatcher.captured()
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "wf-1", job.WorkflowID)
	assert.Equal(t, "user-1", job.UserID)
	require.NotEmpty(t, job.ExecutionID)

	inputData, ok := job.ExecutionData.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, inputData["scheduledAt"])
	assert.Equal(t, config, inputData["scheduleConfig"])

	record, err := executions.ExecutionByID(context.Background(), job.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, record.Status)
	assert.Equal(t, models.ExecutionModeSchedule, record.Mode)
}

func TestStartScansEnabledSchedules(t *testing.T) {
	s, workflows, _, _ := newTestScheduler(t)
	ctx := context.Background()

	enabled := scheduledWorkflow("wf-on", map[string]any{
		"enabled":  true,
		"interval": float64(5),
		"unit":     "minutes",
	})
	disabled := scheduledWorkflow("wf-off", map[string]any{"enabled": false})

	require.NoError(t, workflows.SaveWorkflow(ctx, enabled))
	require.NoError(t, workflows.SaveWorkflow(ctx, disabled))

	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.True(t, s.IsScheduled("wf-on"))
	assert.False(t, s.IsScheduled("wf-off"))
}
