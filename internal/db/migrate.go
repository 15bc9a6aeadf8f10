package db

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

var schemaNameReg = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Migrate creates the schema and tables if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if !schemaNameReg.MatchString(schema) {
		return fmt.Errorf("invalid schema name %q", schema)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmts := []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema),
		fmt.Sprintf("SET LOCAL search_path TO %s", schema),
		schemaSQL,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	return nil
}
