package array

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orders = []any{
	map[string]any{"sku": "A", "qty": float64(5)},
	map[string]any{"sku": "B", "qty": float64(1)},
	map[string]any{"sku": "C", "qty": float64(3)},
}

func TestFilterNodeKeepsMatches(t *testing.T) {
	node, err := NewFilterNode("filter-1", map[string]any{
		"conditions": []any{
			map[string]any{"field": "qty", "operator": "greaterThan", "value": float64(2)},
		},
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, orders)
	require.NoError(t, err)

	result, ok := output.Data.([]any)
	require.True(t, ok)
	require.Len(t, result, 2)
	assert.Equal(t, "A", result[0].(map[string]any)["sku"])
	assert.Equal(t, "C", result[1].(map[string]any)["sku"])
}

func TestFilterNodeWrapsSingleItem(t *testing.T) {
	node, err := NewFilterNode("filter-1", map[string]any{
		"conditions": []any{
			map[string]any{"field": "sku", "operator": "equals", "value": "A"},
		},
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, map[string]any{"sku": "A"})
	require.NoError(t, err)
	assert.Len(t, output.Data, 1)
}

func TestSortNodeAscendingAndDescending(t *testing.T) {
	node, err := NewSortNode("sort-1", map[string]any{"sortBy": "qty"})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, orders)
	require.NoError(t, err)

	result := output.Data.([]any)
	assert.Equal(t, "B", result[0].(map[string]any)["sku"])
	assert.Equal(t, "A", result[2].(map[string]any)["sku"])

	node, err = NewSortNode("sort-2", map[string]any{"sortBy": "qty", "order": OrderDescending})
	require.NoError(t, err)

	output, err = node.Execute(context.Background(), nil, orders)
	require.NoError(t, err)

	result = output.Data.([]any)
	assert.Equal(t, "A", result[0].(map[string]any)["sku"])
}

func TestSortNodeDoesNotMutateInput(t *testing.T) {
	node, err := NewSortNode("sort-1", map[string]any{"sortBy": "qty"})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), nil, orders)
	require.NoError(t, err)
	assert.Equal(t, "A", orders[0].(map[string]any)["sku"])
}

func TestSortNodeRequiresSortBy(t *testing.T) {
	_, err := NewSortNode("sort-1", map[string]any{})
	require.Error(t, err)
}

func TestLimitNodeTruncates(t *testing.T) {
	node, err := NewLimitNode("limit-1", map[string]any{"maxItems": float64(2)})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, orders)
	require.NoError(t, err)
	assert.Len(t, output.Data, 2)
}

func TestLimitNodeRejectsNonPositive(t *testing.T) {
	_, err := NewLimitNode("limit-1", map[string]any{"maxItems": float64(0)})
	require.Error(t, err)
}
