package models

import "time"

// Position is the node's canvas placement. The engine ignores it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the editable part of a node: its display label and the
// handler configuration. Config string values may embed {{...}} expressions
// that are resolved lazily, per node, at execution time.
type NodeData struct {
	Label  string         `json:"label,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// WorkflowNode is one typed unit of work in a workflow. Type selects a
// handler from the node registry.
type WorkflowNode struct {
	ID       string   `json:"id"   validate:"required"`
	Type     string   `json:"type" validate:"required"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NodeOutput is a handler's result envelope. Metadata["branch"] is the
// convention used by branching nodes to signal which sourceHandle to follow.
type NodeOutput struct {
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Branch returns the named output handle this output routes to, or "".
func (o *NodeOutput) Branch() string {
	if o == nil || o.Metadata == nil {
		return ""
	}

	branch, _ := o.Metadata["branch"].(string)

	return branch
}

// NodeTrace is the per-node record of one visit during an execution, keyed
// by node id in the execution's runData.
type NodeTrace struct {
	StartTime     time.Time       `json:"startTime"`
	ExecutionTime int64           `json:"executionTime"` // milliseconds
	Data          *NodeOutput     `json:"data,omitempty"`
	NodeType      string          `json:"nodeType"`
	Error         *ExecutionError `json:"error,omitempty"`
}
