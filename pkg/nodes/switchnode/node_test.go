package switchnode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchNodeRoutesFirstMatch(t *testing.T) {
	node, err := NewSwitchNode("switch-1", map[string]any{
		"rules": []any{
			map[string]any{"field": "tier", "operator": "equals", "value": "gold", "output": "priority"},
			map[string]any{"field": "tier", "operator": "equals", "value": "silver", "output": "standard"},
		},
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, map[string]any{"tier": "silver"})
	require.NoError(t, err)
	assert.Equal(t, "standard", output.Branch())
	assert.Equal(t, map[string]any{"tier": "silver"}, output.Data)
}

func TestSwitchNodeDefaultsHandleName(t *testing.T) {
	node, err := NewSwitchNode("switch-1", map[string]any{
		"rules": []any{
			map[string]any{"field": "tier", "operator": "equals", "value": "gold"},
			map[string]any{"field": "tier", "operator": "equals", "value": "silver"},
		},
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, map[string]any{"tier": "silver"})
	require.NoError(t, err)
	assert.Equal(t, "case_1", output.Branch())
}

func TestSwitchNodeFallsBackToDefault(t *testing.T) {
	node, err := NewSwitchNode("switch-1", map[string]any{
		"rules": []any{
			map[string]any{"field": "tier", "operator": "equals", "value": "gold", "output": "priority"},
		},
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, map[string]any{"tier": "bronze"})
	require.NoError(t, err)
	assert.Equal(t, BranchDefault, output.Branch())
}

func TestSwitchNodeRejectsNonObjectRule(t *testing.T) {
	_, err := NewSwitchNode("switch-1", map[string]any{
		"rules": []any{"not an object"},
	})
	require.Error(t, err)
}
