// Package switchnode provides the multi-way branching node handler. Each
// rule carries an output handle name; the first matching rule's handle is
// recorded as the branch, uniform with the if node's true/false handles.
package switchnode

import (
	"context"
	"fmt"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const BranchDefault = "default"

type Rule struct {
	Condition models.Condition
	Output    string
}

type SwitchNode struct {
	id    string
	rules []Rule
}

func NewSwitchNode(id string, config map[string]any) (*SwitchNode, error) {
	var rules []Rule

	if rawList, ok := config["rules"].([]any); ok {
		for index, raw := range rawList {
			rawMap, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("rule %d must be an object", index)
			}

			rule := Rule{
				Condition: models.ParseCondition(rawMap),
				Output:    fmt.Sprintf("case_%d", index),
			}

			if output, ok := rawMap["output"].(string); ok && output != "" {
				rule.Output = output
			}

			rules = append(rules, rule)
		}
	}

	return &SwitchNode{
		id:    id,
		rules: rules,
	}, nil
}

func (n *SwitchNode) ID() string {
	return n.id
}

func (n *SwitchNode) Type() string {
	return "switch"
}

// Execute evaluates the rules in order and routes to the first match's
// output handle, or to "default" when nothing matches.
func (n *SwitchNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	branch := BranchDefault

	for _, rule := range n.rules {
		if rule.Condition.Evaluate(input) {
			branch = rule.Output

			break
		}
	}

	return &models.NodeOutput{
		Data:     input,
		Metadata: map[string]any{"branch": branch},
	}, nil
}
