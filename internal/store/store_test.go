package store

import (
	"errors"
	"fmt"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationWithDonorQuery(t *testing.T) {
	query, args, err := donationWithDonorQuery().
		Where(sq.Eq{"dn.id": "abc"}).
		Limit(1).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "dn.amount")
	assert.Contains(t, query, `d.name AS "donor.name"`)
	assert.Contains(t, query, "FROM donations dn JOIN donors d ON d.id = dn.donor_id")
	assert.Contains(t, query, "WHERE dn.id = $1")
	assert.Equal(t, []any{"abc"}, args)
}

func TestColumnsSkipRelations(t *testing.T) {
	assert.NotContains(t, donorColumns, "donations")
	assert.NotContains(t, donationColumns, "donor")
	assert.Contains(t, donationColumns, "donor_id")
	assert.Contains(t, userColumns, "password")
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, []string{"x.id", "x.name"}, prefixColumns("x", []string{"id", "name"}))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: pgForeignKeyViolation}
	assert.True(t, isForeignKeyViolation(fmt.Errorf("insert: %w", fk)))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}
