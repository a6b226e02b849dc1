// Package database provides the database query node handler. Query execution
// is not implemented: the node validates its configuration and returns an
// empty result set, so workflows using it keep running end to end.
package database

import (
	"context"
	"errors"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

type DatabaseNode struct {
	id     string
	dbType string
	query  string
}

func NewDatabaseNode(id string, config map[string]any) (*DatabaseNode, error) {
	dbType, ok := config["dbType"].(string)
	if !ok || dbType == "" {
		return nil, errors.New("missing required field 'dbType'")
	}

	query, ok := config["query"].(string)
	if !ok || query == "" {
		return nil, errors.New("missing required field 'query'")
	}

	return &DatabaseNode{
		id:     id,
		dbType: dbType,
		query:  query,
	}, nil
}

func (n *DatabaseNode) ID() string {
	return n.id
}

func (n *DatabaseNode) Type() string {
	return "database"
}

func (n *DatabaseNode) Execute(_ context.Context, _ *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	return &models.NodeOutput{
		Data: map[string]any{
			"rows":     []any{},
			"rowCount": 0,
		},
		Metadata: map[string]any{
			"dbType":      n.dbType,
			"implemented": false,
		},
	}, nil
}
