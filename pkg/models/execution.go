package models

import "time"

// ExecutionStatus is the closed set of execution lifecycle states.
type ExecutionStatus string

const (
	ExecutionStatusRunning  ExecutionStatus = "running"
	ExecutionStatusSuccess  ExecutionStatus = "success"
	ExecutionStatusError    ExecutionStatus = "error"
	ExecutionStatusCanceled ExecutionStatus = "canceled"
)

// IsTerminal reports whether the status is one of the terminal states.
// Exactly one terminal transition is ever applied to an execution.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusSuccess || s == ExecutionStatusError || s == ExecutionStatusCanceled
}

// Execution modes.
const (
	ExecutionModeManual   = "manual"
	ExecutionModeWebhook  = "webhook"
	ExecutionModeSchedule = "schedule"
)

// ExecutionError captures a failure message and its stack/context chain.
type ExecutionError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ResultData holds the full per-node trace of one execution.
type ResultData struct {
	RunData     map[string]*NodeTrace  `json:"runData"`
	NodeOutputs map[string]*NodeOutput `json:"nodeOutputs,omitempty"`
}

// ExecutionData is the payload column of an execution record.
type ExecutionData struct {
	ResultData ResultData `json:"resultData"`
	Error      string     `json:"error,omitempty"`
}

// Execution is one run of a workflow against a given input. The record is
// the single source of truth for execution progress: created in running
// state, updated once with the terminal result.
type Execution struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflow_id" validate:"required"`
	UserID     string          `json:"user_id"     validate:"required"`
	Status     ExecutionStatus `json:"status"`
	Mode       string          `json:"mode,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Data       ExecutionData   `json:"data"`
	Error      *ExecutionError `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Duration returns the wall-clock duration of a finished execution, or the
// elapsed time so far for a running one.
func (e *Execution) Duration() time.Duration {
	if e.FinishedAt != nil {
		return e.FinishedAt.Sub(e.StartedAt)
	}

	return time.Since(e.StartedAt)
}

// NewExecution builds a running execution record for the given workflow.
func NewExecution(id, workflowID, userID, mode string) *Execution {
	now := time.Now().UTC()

	return &Execution{
		ID:         id,
		WorkflowID: workflowID,
		UserID:     userID,
		Status:     ExecutionStatusRunning,
		Mode:       mode,
		StartedAt:  now,
		Data: ExecutionData{
			ResultData: ResultData{
				RunData:     make(map[string]*NodeTrace),
				NodeOutputs: make(map[string]*NodeOutput),
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
