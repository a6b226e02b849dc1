package ifnode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, config, input map[string]any) string {
	t.Helper()

	node, err := NewIfNode("if-1", config)
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, input, output.Data)

	return output.Branch()
}

func TestIfNodeAndCombination(t *testing.T) {
	config := map[string]any{
		"conditions": []any{
			map[string]any{"field": "status", "operator": "equals", "value": "active"},
			map[string]any{"field": "total", "operator": "greaterThan", "value": float64(10)},
		},
		"combineOperation": "AND",
	}

	assert.Equal(t, BranchTrue, evaluate(t, config, map[string]any{"status": "active", "total": float64(20)}))
	assert.Equal(t, BranchFalse, evaluate(t, config, map[string]any{"status": "active", "total": float64(5)}))
}

func TestIfNodeOrCombination(t *testing.T) {
	config := map[string]any{
		"conditions": []any{
			map[string]any{"field": "status", "operator": "equals", "value": "active"},
			map[string]any{"field": "vip", "operator": "equals", "value": true},
		},
		"combineOperation": "OR",
	}

	assert.Equal(t, BranchTrue, evaluate(t, config, map[string]any{"status": "inactive", "vip": true}))
	assert.Equal(t, BranchFalse, evaluate(t, config, map[string]any{"status": "inactive", "vip": false}))
}

func TestIfNodeEmptyConditionsAreTrue(t *testing.T) {
	assert.Equal(t, BranchTrue, evaluate(t, map[string]any{}, map[string]any{"anything": 1}))
}

func TestIfNodeNestedField(t *testing.T) {
	config := map[string]any{
		"conditions": []any{
			map[string]any{"field": "order.status", "operator": "contains", "value": "paid"},
		},
	}

	input := map[string]any{"order": map[string]any{"status": "paid_in_full"}}
	assert.Equal(t, BranchTrue, evaluate(t, config, input))
}
