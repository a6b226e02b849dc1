package registry_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/registry"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.NewRegistry(slog.Default())
	r.RegisterDefaultNodes(registry.Deps{})

	return r
}

func TestRegisterDefaultNodes(t *testing.T) {
	r := newTestRegistry(t)

	for _, nodeType := range []string{
		"trigger", "webhook", "schedule",
		"httpRequest", "database",
		"code", "function", "set", "filter", "sort", "limit", "merge",
		"if", "switch", "delay",
		"email", "slack",
		"aiChat", "aiTextGeneration", "aiImageAnalysis", "aiSentiment",
		"readFile", "uploadFile",
	} {
		assert.True(t, r.IsRegistered(nodeType), "expected %s to be registered", nodeType)
	}
}

func TestCreateNode(t *testing.T) {
	r := newTestRegistry(t)

	handler, err := r.CreateNode("httpRequest", "node-1", map[string]any{
		"url": "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "node-1", handler.ID())
	assert.Equal(t, "httpRequest", handler.Type())
}

func TestCreateNodeUnknownType(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.CreateNode("teleport", "node-1", map[string]any{})
	require.ErrorIs(t, err, registry.ErrNodeTypeNotRegistered)
}

func TestValidateConfig(t *testing.T) {
	r := newTestRegistry(t)

	err := r.ValidateConfig("delay", map[string]any{
		"amount": 5,
		"unit":   "seconds",
	})
	require.NoError(t, err)

	err = r.ValidateConfig("delay", map[string]any{
		"unit": "fortnights",
	})
	require.Error(t, err)
}

func TestNodeTypesSorted(t *testing.T) {
	r := newTestRegistry(t)

	types := r.NodeTypes()
	require.NotEmpty(t, types)

	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1], types[i])
	}
}
