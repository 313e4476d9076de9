package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
)

const returning = "RETURNING id, name, description, price_cents, currency, image, category_id, created_at, updated_at"

var columns = []string{
	"id",
	"name",
	"description",
	"price_cents",
	"currency",
	"image",
	"category_id",
	"created_at",
	"updated_at",
}

// ProductDal represents product data access layer model.
type ProductDal struct {
	Id          int64
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Image       string
	CategoryId  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToModel converts ProductDal to service layer Product model.
func (p *ProductDal) ToModel() (product.Product, error) {
	cur, err := currency.ParseCurrency(p.Currency)
	if err != nil {
		return product.Product{}, err
	}

	return product.Product{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Currency:    cur,
		Image:       p.Image,
		CategoryID:  p.CategoryId,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func scan(row interface{ Scan(dest ...any) error }) (product.Product, error) {
	var dal ProductDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.PriceCents,
		&dal.Currency,
		&dal.Image,
		&dal.CategoryId,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return product.Product{}, err
	}

	return dal.ToModel()
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.Conn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert creates a product and returns it with its id.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	sql, args, err := r.sb.Insert("products").
		Columns("name", "description", "price_cents", "currency", "image", "category_id", "created_at", "updated_at").
		Values(p.Name, p.Description, p.PriceCents, p.Currency.String(), p.Image, p.CategoryID, p.CreatedAt, p.UpdatedAt).
		Suffix(returning).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsForeignKeyViolation(err) {
		return product.Product{}, apperr.Validation("invalid category")
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return created, nil
}

// Update overwrites every mutable field of an existing product.
func (r *PostgresProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	sql, args, err := r.sb.Update("products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price_cents", p.PriceCents).
		Set("currency", p.Currency.String()).
		Set("image", p.Image).
		Set("category_id", p.CategoryID).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scan(r.conn.QueryRow(ctx, sql, args...))
	switch {
	case postgres.IsNoRows(err):
		return product.Product{}, apperr.NotFound("product %d not found", p.ID)
	case postgres.IsForeignKeyViolation(err):
		return product.Product{}, apperr.Validation("invalid category")
	case err != nil:
		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// Delete removes a product. Products referenced by order items are refused.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("products").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.Validation("product %d is linked to orders", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product %d not found", id)
	}

	return nil
}

// Get returns one product.
func (r *PostgresProductRepository) Get(ctx context.Context, id int64) (product.Product, error) {
	sql, args, err := r.sb.Select(columns...).From("products").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := scan(r.conn.QueryRow(ctx, sql, args...))
	if postgres.IsNoRows(err) {
		return product.Product{}, apperr.NotFound("product %d not found", id)
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// Query retrieves products based on filter criteria.
func (r *PostgresProductRepository) Query(
	ctx context.Context,
	filter *product.QueryProductsModel,
) ([]product.Product, error) {
	query := r.sb.Select(columns...).From("products").OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.CategoryIds) > 0 {
		query = query.Where(sq.Eq{"category_id": filter.CategoryIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	result := []product.Product{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
