package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

// WorkflowRepository stores workflows as workflows/<id>.json documents.
type WorkflowRepository struct {
	root string
	mu   sync.RWMutex
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (r *WorkflowRepository) dir() string {
	return filepath.Join(r.root, "workflows")
}

func (r *WorkflowRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

// Workflows loads every stored workflow.
func (r *WorkflowRepository) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		workflow, err := r.load(filepath.Join(r.dir(), entry))
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// WorkflowByID loads a single workflow document.
func (r *WorkflowRepository) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workflow, err := r.load(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, err
	}

	return workflow, nil
}

// SaveWorkflow writes the workflow document, replacing any previous version.
func (r *WorkflowRepository) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return writeDocument(r.path(workflow.ID), workflow)
}

// DeleteWorkflow removes the workflow document.
func (r *WorkflowRepository) DeleteWorkflow(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if os.IsNotExist(err) {
		return persistence.ErrWorkflowNotFound
	}

	return err
}

func (r *WorkflowRepository) load(path string) (*models.Workflow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var workflow models.Workflow
	if err := json.Unmarshal(raw, &workflow); err != nil {
		return nil, fmt.Errorf("failed to decode workflow %s: %w", path, err)
	}

	return &workflow, nil
}

// writeDocument marshals a record and writes it via a temp-file rename so a
// crashed write never leaves a truncated document behind.
func writeDocument(path string, record any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return os.Rename(tmp, path)
}
