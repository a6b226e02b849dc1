package cmd

import (
	"log/slog"

	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/registry"
)

// NewRegistry builds the node registry with every built-in node type
// registered. The file store backs the uploadFile node.
func NewRegistry(logger *slog.Logger, files persistence.FileStore) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes(registry.Deps{Files: files})

	logger.Info("Node registry initialized", "node_types", reg.NodeTypes())

	return reg
}
