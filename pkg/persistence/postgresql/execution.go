package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

// ExecutionRepository implements execution record storage on PostgreSQL.
// Updates are single UPDATE-by-id statements, which gives the atomic
// update-by-id guarantee the engine requires.
type ExecutionRepository struct {
	db *sql.DB
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

const executionColumns = `id, workflow_id, user_id, status, mode, started_at, finished_at, data, error, created_at, updated_at`

func (r *ExecutionRepository) CreateExecution(ctx context.Context, execution *models.Execution) error {
	data, errorPayload, err := encodeExecutionPayloads(execution)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO executions (`+executionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		execution.ID, execution.WorkflowID, execution.UserID, execution.Status,
		execution.Mode, execution.StartedAt, execution.FinishedAt,
		data, errorPayload, execution.CreatedAt, execution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+executionColumns+` FROM executions WHERE id = $1`, id)

	execution, err := scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, err
	}

	return execution, nil
}

func (r *ExecutionRepository) ExecutionsByWorkflowID(ctx context.Context, workflowID, userID string, limit int) ([]*models.Execution, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + executionColumns + ` FROM executions WHERE workflow_id = $1`
	args := []any{workflowID}

	if userID != "" {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	var executions []*models.Execution

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}

		executions = append(executions, execution)
	}

	return executions, rows.Err()
}

func (r *ExecutionRepository) UpdateExecution(ctx context.Context, execution *models.Execution) error {
	data, errorPayload, err := encodeExecutionPayloads(execution)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE executions
		SET status = $2, finished_at = $3, data = $4, error = $5, updated_at = $6
		WHERE id = $1`,
		execution.ID, execution.Status, execution.FinishedAt,
		data, errorPayload, execution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update execution %s: %w", execution.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return persistence.ErrExecutionNotFound
	}

	return nil
}

func (r *ExecutionRepository) ExecutionStats(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM executions WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)

	for rows.Next() {
		var (
			status string
			count  int
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		stats[status] = count
	}

	return stats, rows.Err()
}

func encodeExecutionPayloads(execution *models.Execution) ([]byte, []byte, error) {
	data, err := json.Marshal(execution.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode execution data: %w", err)
	}

	var errorPayload []byte

	if execution.Error != nil {
		errorPayload, err = json.Marshal(execution.Error)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode execution error: %w", err)
		}
	}

	return data, errorPayload, nil
}

func scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution    models.Execution
		mode         sql.NullString
		finishedAt   sql.NullTime
		data         []byte
		errorPayload []byte
	)

	err := row.Scan(
		&execution.ID, &execution.WorkflowID, &execution.UserID, &execution.Status,
		&mode, &execution.StartedAt, &finishedAt,
		&data, &errorPayload, &execution.CreatedAt, &execution.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	execution.Mode = mode.String

	if finishedAt.Valid {
		execution.FinishedAt = &finishedAt.Time
	}

	if err := json.Unmarshal(data, &execution.Data); err != nil {
		return nil, fmt.Errorf("failed to decode execution data: %w", err)
	}

	if len(errorPayload) > 0 {
		execution.Error = &models.ExecutionError{}
		if err := json.Unmarshal(errorPayload, execution.Error); err != nil {
			return nil, fmt.Errorf("failed to decode execution error: %w", err)
		}
	}

	return &execution, nil
}
