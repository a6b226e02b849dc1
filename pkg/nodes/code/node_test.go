package code

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeNodeMapsItems(t *testing.T) {
	node, err := NewCodeNode("code-1", map[string]any{
		"code": `return items.map(item => ({ ...item, processed: true }));`,
	})
	require.NoError(t, err)

	input := []any{
		map[string]any{"sku": "A"},
		map[string]any{"sku": "B"},
	}

	output, err := node.Execute(context.Background(), nil, input)
	require.NoError(t, err)

	result, ok := output.Data.([]any)
	require.True(t, ok)
	require.Len(t, result, 2)

	first, ok := result[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A", first["sku"])
	assert.Equal(t, true, first["processed"])
}

func TestCodeNodeWrapsSingleItem(t *testing.T) {
	node, err := NewCodeNode("code-1", map[string]any{
		"code": `return items.length;`,
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, map[string]any{"sku": "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), output.Data)
}

func TestCodeNodeEachItemMode(t *testing.T) {
	node, err := NewCodeNode("code-1", map[string]any{
		"code": `return item.n * 2;`,
		"mode": ModeEachItem,
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, []any{
		map[string]any{"n": int64(1)},
		map[string]any{"n": int64(2)},
	})
	require.NoError(t, err)

	result, ok := output.Data.([]any)
	require.True(t, ok)
	assert.Equal(t, int64(2), result[0])
	assert.Equal(t, int64(4), result[1])
}

func TestCodeNodeScriptErrorFailsNode(t *testing.T) {
	node, err := NewCodeNode("code-1", map[string]any{
		"code": `throw new Error("bad input");`,
	})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
}

func TestCodeNodeTimesOut(t *testing.T) {
	node, err := NewCodeNode("code-1", map[string]any{
		"code":    `while (true) {}`,
		"timeout": float64(50),
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = node.Execute(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCodeNodeMissingCode(t *testing.T) {
	_, err := NewCodeNode("code-1", map[string]any{})
	require.Error(t, err)
}
