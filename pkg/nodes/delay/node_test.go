package delay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayNodePassesInputThrough(t *testing.T) {
	node, err := NewDelayNode("delay-1", map[string]any{
		"amount": float64(10),
		"unit":   "milliseconds",
	})
	require.NoError(t, err)

	start := time.Now()

	output, err := node.Execute(context.Background(), nil, map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1}, output.Data)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestDelayNodeCancellable(t *testing.T) {
	node, err := NewDelayNode("delay-1", map[string]any{
		"amount": float64(1),
		"unit":   "hours",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = node.Execute(ctx, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDelayNodeRejectsInvalidConfig(t *testing.T) {
	_, err := NewDelayNode("delay-1", map[string]any{"amount": float64(-1)})
	require.Error(t, err)

	_, err = NewDelayNode("delay-1", map[string]any{"unit": "days"})
	require.Error(t, err)
}
