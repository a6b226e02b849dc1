// Package merge provides the fan-in node handler. The engine collects the
// outputs of all incoming edges before this node runs; the handler combines
// them into a single payload.
package merge

import (
	"context"
	"fmt"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	ModeAppend = "append"
	ModeMerge  = "merge"
)

type MergeNode struct {
	id   string
	mode string
}

func NewMergeNode(id string, config map[string]any) (*MergeNode, error) {
	mode := ModeAppend
	if configured, ok := config["mode"].(string); ok && configured != "" {
		mode = configured
	}

	if mode != ModeAppend && mode != ModeMerge {
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}

	return &MergeNode{
		id:   id,
		mode: mode,
	}, nil
}

func (n *MergeNode) ID() string {
	return n.id
}

func (n *MergeNode) Type() string {
	return "merge"
}

// Execute combines the collected input. Append flattens everything to one
// array; merge unions object fields, later inputs winning on key conflicts.
func (n *MergeNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	if n.mode == ModeMerge {
		return &models.NodeOutput{Data: mergeObjects(input)}, nil
	}

	return &models.NodeOutput{Data: flatten(input)}, nil
}

func flatten(input any) []any {
	switch typed := input.(type) {
	case nil:
		return []any{}
	case []any:
		result := make([]any, 0, len(typed))
		for _, item := range typed {
			if nested, ok := item.([]any); ok {
				result = append(result, nested...)
			} else {
				result = append(result, item)
			}
		}

		return result
	default:
		return []any{typed}
	}
}

func mergeObjects(input any) map[string]any {
	result := make(map[string]any)

	merge := func(value any) {
		if asMap, ok := value.(map[string]any); ok {
			for key, val := range asMap {
				result[key] = val
			}
		}
	}

	if list, ok := input.([]any); ok {
		for _, item := range list {
			merge(item)
		}
	} else {
		merge(input)
	}

	return result
}
