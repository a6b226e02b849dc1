// Package models defines the core domain models for graph-based workflow execution.
package models

import "time"

// Workflow is a persisted directed graph of typed nodes and connections.
// It is mutated by the (out of scope) CRUD surface and read-only from the
// engine's perspective.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required,min=1"`
	IsActive    bool            `json:"is_active"`
	OwnerID     string          `json:"owner_id"    validate:"required"`
	Nodes       []*WorkflowNode `json:"nodes"       validate:"dive"`
	Connections []*Connection   `json:"connections" validate:"dive"`
	Settings    map[string]any  `json:"settings,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Connection is a directed edge from one node's output to another node's
// input. SourceHandle distinguishes multiple logical outputs of one node
// ("true"/"false" for the if node); plain nodes leave it empty.
type Connection struct {
	Source       string `json:"source"                 validate:"required"`
	Target       string `json:"target"                 validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
}

// NodeByID returns the node with the given id, or nil.
func (w *Workflow) NodeByID(id string) *WorkflowNode {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// IncomingConnections returns the edges targeting the given node, in
// declaration order.
func (w *Workflow) IncomingConnections(nodeID string) []*Connection {
	var incoming []*Connection

	for _, conn := range w.Connections {
		if conn.Target == nodeID {
			incoming = append(incoming, conn)
		}
	}

	return incoming
}

// OutgoingConnections returns the edges leaving the given node, in
// declaration order.
func (w *Workflow) OutgoingConnections(nodeID string) []*Connection {
	var outgoing []*Connection

	for _, conn := range w.Connections {
		if conn.Source == nodeID {
			outgoing = append(outgoing, conn)
		}
	}

	return outgoing
}
