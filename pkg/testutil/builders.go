// Package testutil provides test data builders for workflow graphs.
package testutil

import (
	"github.com/google/uuid"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

// CreateTestWorkflow creates a workflow with default values that can be
// overridden.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := &models.Workflow{
		ID:       uuid.NewString(),
		Name:     "Test Workflow",
		IsActive: true,
		OwnerID:  "test-user",
		Nodes:    []*models.WorkflowNode{},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// WithNodes sets the workflow's nodes.
func WithNodes(nodes ...*models.WorkflowNode) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Nodes = nodes
	}
}

// WithConnections sets the workflow's connections.
func WithConnections(connections ...*models.Connection) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Connections = connections
	}
}

// WithOwner sets the workflow's owner.
func WithOwner(ownerID string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.OwnerID = ownerID
	}
}

// CreateTestNode creates a workflow node with default values that can be
// overridden.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:   uuid.NewString(),
		Type: "set",
		Data: models.NodeData{
			Config: map[string]any{"values": map[string]any{}},
		},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node id.
func WithID(id string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ID = id
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = nodeType
	}
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Data.Config = config
	}
}

// Connect builds a plain connection between two nodes.
func Connect(source, target string) *models.Connection {
	return &models.Connection{Source: source, Target: target}
}

// ConnectHandle builds a connection from a named output handle.
func ConnectHandle(source, target, handle string) *models.Connection {
	return &models.Connection{Source: source, Target: target, SourceHandle: handle}
}
