// Package cmd provides shared construction helpers for the builder binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Izguerra/workflow-builder/pkg/persistence"
	"github.com/Izguerra/workflow-builder/pkg/persistence/file"
	"github.com/Izguerra/workflow-builder/pkg/persistence/postgresql"
)

// NewPersistence selects a storage backend from the database URL scheme.
// postgres:// URLs get the SQL backend; anything else is treated as a
// file-store root path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
