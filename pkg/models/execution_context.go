package models

import "log/slog"

// ExecutionContext is the mutable state threaded through one traversal.
// It is owned exclusively by one in-flight execution and never shared.
// User identity travels here, not on any long-lived component.
type ExecutionContext struct {
	ExecutionID   string
	WorkflowID    string
	UserID        string
	Workflow      *Workflow
	InputData     any
	RunData       map[string]*NodeTrace
	NodeOutputs   map[string]*NodeOutput
	Visited       map[string]bool
	CurrentNodeID string
	Logger        *slog.Logger
}

// NewExecutionContext builds a fresh context for one traversal.
func NewExecutionContext(executionID, userID string, workflow *Workflow, inputData any, logger *slog.Logger) *ExecutionContext {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExecutionContext{
		ExecutionID: executionID,
		WorkflowID:  workflow.ID,
		UserID:      userID,
		Workflow:    workflow,
		InputData:   inputData,
		RunData:     make(map[string]*NodeTrace),
		NodeOutputs: make(map[string]*NodeOutput),
		Visited:     make(map[string]bool),
		Logger:      logger,
	}
}

// PreviousNodeID returns the source of the first incoming edge of the
// currently executing node, or "".
func (ec *ExecutionContext) PreviousNodeID() string {
	if ec.Workflow == nil || ec.CurrentNodeID == "" {
		return ""
	}

	incoming := ec.Workflow.IncomingConnections(ec.CurrentNodeID)
	if len(incoming) == 0 {
		return ""
	}

	return incoming[0].Source
}
