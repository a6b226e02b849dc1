// Package ifnode provides the two-way conditional branching node handler.
// The node passes its input through and records the branch decision in the
// output metadata; the engine follows only edges whose sourceHandle matches.
package ifnode

import (
	"context"
	"strings"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

type IfNode struct {
	id         string
	conditions []models.Condition
	combinator string
}

func NewIfNode(id string, config map[string]any) (*IfNode, error) {
	var conditions []models.Condition

	if rawList, ok := config["conditions"].([]any); ok {
		for _, raw := range rawList {
			if rawMap, ok := raw.(map[string]any); ok {
				conditions = append(conditions, models.ParseCondition(rawMap))
			}
		}
	}

	combinator := models.CombinatorAnd
	if combined, ok := config["combineOperation"].(string); ok && combined != "" {
		combinator = strings.ToLower(combined)
	}

	return &IfNode{
		id:         id,
		conditions: conditions,
		combinator: combinator,
	}, nil
}

func (n *IfNode) ID() string {
	return n.id
}

func (n *IfNode) Type() string {
	return "if"
}

func (n *IfNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	branch := BranchFalse
	if models.EvaluateConditions(n.conditions, n.combinator, input) {
		branch = BranchTrue
	}

	return &models.NodeOutput{
		Data:     input,
		Metadata: map[string]any{"branch": branch},
	}, nil
}
