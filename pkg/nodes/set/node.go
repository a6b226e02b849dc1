// Package set provides the field-assignment node handler.
package set

import (
	"context"
	"fmt"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	ModeSet    = "set"
	ModeDelete = "delete"
)

type SetNode struct {
	id     string
	mode   string
	values map[string]any
}

func NewSetNode(id string, config map[string]any) (*SetNode, error) {
	mode := ModeSet
	if configured, ok := config["mode"].(string); ok && configured != "" {
		mode = configured
	}

	if mode != ModeSet && mode != ModeDelete {
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}

	values, _ := config["values"].(map[string]any)
	if values == nil {
		values = map[string]any{}
	}

	return &SetNode{
		id:     id,
		mode:   mode,
		values: values,
	}, nil
}

func (n *SetNode) ID() string {
	return n.id
}

func (n *SetNode) Type() string {
	return "set"
}

// Execute shallow-merges the configured values into the input object, or
// deletes the configured keys from it. Non-object input is replaced by the
// values alone.
func (n *SetNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	result := make(map[string]any)

	if inputMap, ok := input.(map[string]any); ok {
		for key, value := range inputMap {
			result[key] = value
		}
	}

	switch n.mode {
	case ModeDelete:
		for key := range n.values {
			delete(result, key)
		}
	default:
		for key, value := range n.values {
			result[key] = value
		}
	}

	return &models.NodeOutput{Data: result}, nil
}
