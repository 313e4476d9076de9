package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
)

var columns = []string{"id", "name", "description"}

// PostgresCategoryRepository represents a Postgres category repository.
type PostgresCategoryRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresCategoryRepository creates a new Postgres category repository.
func NewPostgresCategoryRepository(conn postgres.Conn) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scan(row interface{ Scan(dest ...any) error }) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description)

	return c, err
}

// Insert creates a category and returns it with its id.
func (r *PostgresCategoryRepository) Insert(ctx context.Context, c category.Category) (category.Category, error) {
	sql, args, err := r.sb.Insert("categories").
		Columns("name", "description").
		Values(c.Name, c.Description).
		Suffix("RETURNING id, name, description").
		ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}

	return created, nil
}

// Update overwrites name and description of an existing category.
func (r *PostgresCategoryRepository) Update(ctx context.Context, c category.Category) (category.Category, error) {
	sql, args, err := r.sb.Update("categories").
		Set("name", c.Name).
		Set("description", c.Description).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING id, name, description").
		ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsNoRows(err) {
		return category.Category{}, apperr.NotFound("category %d not found", c.ID)
	}
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to update category: %w", err)
	}

	return updated, nil
}

// Delete removes a category. Categories still referenced by products are refused.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.Validation("category %d has linked products", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category %d not found", id)
	}

	return nil
}

// Get returns one category.
func (r *PostgresCategoryRepository) Get(ctx context.Context, id int64) (category.Category, error) {
	sql, args, err := r.sb.Select(columns...).From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build query: %w", err)
	}

	c, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsNoRows(err) {
		return category.Category{}, apperr.NotFound("category %d not found", id)
	}
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// List returns all categories ordered by id.
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	sql, args, err := r.sb.Select(columns...).From("categories").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	result := []category.Category{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
