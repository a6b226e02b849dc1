package database

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// DatabaseNodeFactory creates DatabaseNode instances.
type DatabaseNodeFactory struct{}

func NewDatabaseNodeFactory() protocol.NodeFactory {
	return &DatabaseNodeFactory{}
}

func (f *DatabaseNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewDatabaseNode(id, config)
}

func (f *DatabaseNodeFactory) ID() string {
	return "database"
}

func (f *DatabaseNodeFactory) Name() string {
	return "Database"
}

func (f *DatabaseNodeFactory) Description() string {
	return "Runs a database query (validation only, returns an empty result set)"
}

func (f *DatabaseNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dbType": map[string]any{
				"type": "string",
				"enum": []string{"postgres", "mysql", "mongodb"},
			},
			"operation": map[string]any{
				"type": "string",
				"enum": []string{"select", "insert", "update", "delete"},
			},
			"query":    map[string]any{"type": "string"},
			"host":     map[string]any{"type": "string"},
			"port":     map[string]any{"type": "number"},
			"database": map[string]any{"type": "string"},
			"username": map[string]any{"type": "string"},
			"password": map[string]any{"type": "string"},
		},
		"required": []string{"dbType", "query"},
	}
}
