package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userTableName     = "users"
	donorTableName    = "donors"
	donationTableName = "donations"
	campaignTableName = "campaigns"
	taskTableName     = "tasks"
)

const pgForeignKeyViolation = "23503"

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// TruncateAll empties every table. Used by the seed command only.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	query := fmt.Sprintf("TRUNCATE %s, %s, %s, %s, %s",
		donationTableName, donorTableName, campaignTableName, taskTableName, userTableName)

	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	return nil
}

func prefixColumns(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
