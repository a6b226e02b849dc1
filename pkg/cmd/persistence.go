// Package cmd holds the shared bootstrap helpers used by the binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL:
// postgres:// for PostgreSQL, anything else is treated as a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}
