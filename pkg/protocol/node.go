// Package protocol defines the contracts between the traversal engine and
// pluggable node handlers.
package protocol

import (
	"context"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

// NodeHandler implements one node type's runtime behavior. Handlers receive
// their configuration already expression-resolved, read the execution context
// but never mutate it, and report results only through the returned output.
type NodeHandler interface {
	// ID returns the workflow node id this handler instance was created for.
	ID() string

	// Type returns the node type tag.
	Type() string

	// Execute runs the node against the collected input and returns its
	// output envelope. A returned error aborts the whole traversal.
	Execute(ctx context.Context, ec *models.ExecutionContext, input any) (*models.NodeOutput, error)
}

// NodeFactory creates handler instances for one node type and describes the
// type to the registry.
type NodeFactory interface {
	// Create builds a handler for a node with the given resolved config.
	Create(id string, config map[string]any) (NodeHandler, error)

	// ID returns the node type tag this factory serves.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node does.
	Description() string

	// Schema returns the JSON schema for configuring this node type.
	Schema() map[string]any
}
