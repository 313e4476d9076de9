package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id             int64
	OrderId        int64
	ProductId      int64
	Quantity       int
	ProductName    string
	SalePriceCents int64
	Currency       string
	CreatedAt      time.Time
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() (orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(oi.Currency)
	if err != nil {
		return orderitem.OrderItem{}, err
	}

	return orderitem.OrderItem{
		ID:             oi.Id,
		OrderID:        oi.OrderId,
		ProductID:      oi.ProductId,
		Quantity:       oi.Quantity,
		ProductName:    oi.ProductName,
		SalePriceCents: oi.SalePriceCents,
		Currency:       cur,
		CreatedAt:      oi.CreatedAt,
	}, nil
}

func scan(row interface{ Scan(dest ...any) error }) (orderitem.OrderItem, error) {
	var dal OrderItemDal
	var createdAt pgtype.Timestamptz

	err := row.Scan(
		&dal.Id,
		&dal.OrderId,
		&dal.ProductId,
		&dal.Quantity,
		&dal.ProductName,
		&dal.SalePriceCents,
		&dal.Currency,
		&createdAt,
	)
	if err != nil {
		return orderitem.OrderItem{}, err
	}
	dal.CreatedAt = createdAt.Time

	return dal.ToModel()
}

const returning = "RETURNING id, order_id, product_id, quantity, product_name, sale_price_cents, currency, created_at"

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.Conn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple order items in one statement and returns them with IDs,
// in input order.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(orderItems) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := r.sb.Insert("order_items").
		Columns("order_id", "product_id", "quantity", "product_name", "sale_price_cents", "currency", "created_at")
	for _, oi := range orderItems {
		query = query.Values(
			oi.OrderID,
			oi.ProductID,
			oi.Quantity,
			oi.ProductName,
			oi.SalePriceCents,
			oi.Currency.String(),
			pgtype.Timestamptz{Time: oi.CreatedAt, Valid: true},
		)
	}

	sql, args, err := query.Suffix(returning).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	result := make([]orderitem.OrderItem, 0, len(orderItems))
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.
		Select(
			"id",
			"order_id",
			"product_id",
			"quantity",
			"product_name",
			"sale_price_cents",
			"currency",
			"created_at",
		).
		From("order_items").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	if len(filter.ProductIds) > 0 {
		query = query.Where(sq.Eq{"product_id": filter.ProductIds})
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
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := []orderitem.OrderItem{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
