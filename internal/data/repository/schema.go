package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"movie-social/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the postgres tables and indexes when they are missing.
func EnsureSchema(ctx context.Context, db database.PgxIface) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
