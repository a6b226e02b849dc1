package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

// ExecutionRepository stores execution records as executions/<id>.json.
// The mutex makes update-by-id atomic within this process, which is the
// collaborator contract the worker relies on.
type ExecutionRepository struct {
	root string
	mu   sync.RWMutex
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

func (r *ExecutionRepository) dir() string {
	return filepath.Join(r.root, "executions")
}

func (r *ExecutionRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

func (r *ExecutionRepository) CreateExecution(ctx context.Context, execution *models.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return writeDocument(r.path(execution.ID), execution)
}

func (r *ExecutionRepository) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.load(r.path(id))
}

func (r *ExecutionRepository) ExecutionsByWorkflowID(ctx context.Context, workflowID, userID string, limit int) ([]*models.Execution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.Execution, 0)

	for _, entry := range entries {
		execution, err := r.load(filepath.Join(r.dir(), entry))
		if err != nil {
			return nil, err
		}

		if execution.WorkflowID != workflowID {
			continue
		}

		if userID != "" && execution.UserID != userID {
			continue
		}

		executions = append(executions, execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].CreatedAt.After(executions[j].CreatedAt)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, nil
}

func (r *ExecutionRepository) UpdateExecution(ctx context.Context, execution *models.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path(execution.ID)); os.IsNotExist(err) {
		return persistence.ErrExecutionNotFound
	}

	return writeDocument(r.path(execution.ID), execution)
}

func (r *ExecutionRepository) ExecutionStats(ctx context.Context, userID string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	stats := make(map[string]int)

	for _, entry := range entries {
		execution, err := r.load(filepath.Join(r.dir(), entry))
		if err != nil {
			return nil, err
		}

		if userID != "" && execution.UserID != userID {
			continue
		}

		stats[string(execution.Status)]++
	}

	return stats, nil
}

func (r *ExecutionRepository) load(path string) (*models.Execution, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, err
	}

	var execution models.Execution
	if err := json.Unmarshal(raw, &execution); err != nil {
		return nil, fmt.Errorf("failed to decode execution %s: %w", path, err)
	}

	return &execution, nil
}
