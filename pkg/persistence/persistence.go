// Package persistence provides the storage abstraction consumed by the
// execution engine: workflows, execution records, and the files collaborator.
package persistence

import (
	"context"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

// WorkflowRepository reads and writes workflow graphs. The engine only reads.
type WorkflowRepository interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error
}

// ExecutionRepository persists execution lifecycle records. UpdateExecution
// must be atomic by id: the scheduler/ingress creates records, the worker
// updates them, and lost updates would leave terminal states ambiguous.
type ExecutionRepository interface {
	CreateExecution(ctx context.Context, execution *models.Execution) error
	ExecutionByID(ctx context.Context, id string) (*models.Execution, error)
	ExecutionsByWorkflowID(ctx context.Context, workflowID, userID string, limit int) ([]*models.Execution, error)
	UpdateExecution(ctx context.Context, execution *models.Execution) error
	ExecutionStats(ctx context.Context, userID string) (map[string]int, error)
}

// FileStore is the files collaborator contract. Implementations enforce
// ownership: requesting another user's file returns ErrFileForbidden.
type FileStore interface {
	GetFileContent(ctx context.Context, fileID, ownerID string) ([]byte, error)
	GetFileByID(ctx context.Context, fileID, ownerID string) (*models.FileInfo, error)
}

// Persistence bundles the repositories behind one connection lifecycle.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
