// Package events defines the payloads carried on the execution queue and the
// lifecycle notifications published by the worker.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Queue topics.
const ExecutionJobsTopic = "flowgraph.execution.jobs"
const ExecutionEventsTopic = "flowgraph.execution.events"

const EventTypeMetadataKey = "event_type"

const (
	ExecutionRequestedEvent EventType = "execution.requested"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
)

// Event is implemented by every payload published to the queue topics.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
	WorkerID   string    `json:"worker_id,omitempty"`
}

func newBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// ExecutionJob asks a worker to run one already-created execution. Delivery
// is at-least-once; the worker treats terminal executions as no-ops.
type ExecutionJob struct {
	BaseEvent

	ExecutionID   string `json:"execution_id"`
	UserID        string `json:"user_id"`
	ExecutionData any    `json:"execution_data,omitempty"`
}

func (e ExecutionJob) GetType() EventType {
	return ExecutionRequestedEvent
}

// NewExecutionJob builds a queue job for the given execution.
func NewExecutionJob(executionID, workflowID, userID string, executionData any) *ExecutionJob {
	return &ExecutionJob{
		BaseEvent:     newBaseEvent(ExecutionRequestedEvent, workflowID),
		ExecutionID:   executionID,
		UserID:        userID,
		ExecutionData: executionData,
	}
}

// ExecutionCompleted reports a successful run.
type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

// NewExecutionCompleted builds a completion notification.
func NewExecutionCompleted(executionID, workflowID string, duration time.Duration) *ExecutionCompleted {
	return &ExecutionCompleted{
		BaseEvent:   newBaseEvent(ExecutionCompletedEvent, workflowID),
		ExecutionID: executionID,
		Duration:    duration,
	}
}

// ExecutionFailed reports a failed run.
type ExecutionFailed struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Error       string        `json:"error"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// NewExecutionFailed builds a failure notification.
func NewExecutionFailed(executionID, workflowID, errorMessage string, duration time.Duration) *ExecutionFailed {
	return &ExecutionFailed{
		BaseEvent:   newBaseEvent(ExecutionFailedEvent, workflowID),
		ExecutionID: executionID,
		Error:       errorMessage,
		Duration:    duration,
	}
}
