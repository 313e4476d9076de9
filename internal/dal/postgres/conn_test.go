package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	fk := fmt.Errorf("failed to delete product: %w", &pgconn.PgError{Code: "23503"})
	uniq := fmt.Errorf("failed to insert customer: %w", &pgconn.PgError{Code: "23505"})
	noRows := fmt.Errorf("failed to get: %w", pgx.ErrNoRows)

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsUniqueViolation(uniq))
	assert.False(t, IsForeignKeyViolation(uniq))
	assert.True(t, IsNoRows(noRows))
	assert.False(t, IsNoRows(fk))
}
