// Package trigger provides the trigger-family node handlers. Trigger nodes
// are workflow entry points: they pass their input through, or synthesize a
// marker payload when the run was started without one.
package trigger

import (
	"context"
	"time"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

type TriggerNode struct {
	id       string
	nodeType string
	config   map[string]any
}

func NewTriggerNode(id, nodeType string, config map[string]any) (*TriggerNode, error) {
	return &TriggerNode{
		id:       id,
		nodeType: nodeType,
		config:   config,
	}, nil
}

func (n *TriggerNode) ID() string {
	return n.id
}

func (n *TriggerNode) Type() string {
	return n.nodeType
}

// Execute passes the run input through unchanged. A run started with no
// input still produces a usable payload for downstream expressions.
func (n *TriggerNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	if input == nil {
		return &models.NodeOutput{
			Data: map[string]any{
				"triggered": true,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		}, nil
	}

	return &models.NodeOutput{Data: input}, nil
}
