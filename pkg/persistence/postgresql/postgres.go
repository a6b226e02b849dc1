// Package postgresql provides PostgreSQL persistence for workflows and
// executions. Graph and trace payloads are stored as JSONB documents.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	_ "github.com/lib/pq" // postgres driver
)

// Persistence implements persistence.Persistence on PostgreSQL.
type Persistence struct {
	db            *sql.DB
	logger        *slog.Logger
	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
}

// NewPersistence connects, runs migrations, and returns the persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Persistence{
		db:            database,
		logger:        logger.With("module", "postgresql"),
		workflowRepo:  NewWorkflowRepository(database),
		executionRepo: NewExecutionRepository(database),
	}

	if err := p.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return p, nil
}

func (p *Persistence) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS workflows (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			is_active   BOOLEAN NOT NULL DEFAULT TRUE,
			owner_id    TEXT NOT NULL,
			nodes       JSONB NOT NULL DEFAULT '[]',
			connections JSONB NOT NULL DEFAULT '[]',
			settings    JSONB NOT NULL DEFAULT '{}',
			metadata    JSONB NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS executions (
			id          TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			user_id     TEXT NOT NULL,
			status      TEXT NOT NULL,
			mode        TEXT,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			data        JSONB NOT NULL DEFAULT '{}',
			error       JSONB,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_executions_workflow ON executions (workflow_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_executions_user_status ON executions (user_id, status)`,
	}

	for _, statement := range statements {
		if _, err := p.db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	p.logger.InfoContext(ctx, "Database migrations applied")

	return nil
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return p.executionRepo
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
