package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
)

var columns = []string{
	"id",
	"customer_id",
	"status",
	"total_cents",
	"currency",
	"payment_amount_cents",
	"payment_description",
	"payment_qrcode",
	"payment_status",
	"payment_provider_id",
	"created_at",
	"updated_at",
}

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id                 int64
	CustomerId         *int64
	Status             string
	TotalCents         int64
	Currency           string
	PaymentAmountCents int64
	PaymentDescription string
	PaymentQRCode      string
	PaymentStatus      string
	PaymentProviderId  *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (order.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return order.Order{}, err
	}

	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", o.Id, err)
	}

	var providerID string
	if o.PaymentProviderId != nil {
		providerID = *o.PaymentProviderId
	}

	return order.Order{
		ID:         o.Id,
		CustomerID: o.CustomerId,
		TotalCents: o.TotalCents,
		Currency:   cur,
		Status:     status,
		Payment: payment.Payment{
			AmountCents: o.PaymentAmountCents,
			Description: o.PaymentDescription,
			QRCode:      o.PaymentQRCode,
			Status:      o.PaymentStatus,
			ProviderID:  providerID,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Items:     []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

// OrderDalFromModel converts service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	var providerID *string
	if o.Payment.ProviderID != "" {
		providerID = &o.Payment.ProviderID
	}

	return &OrderDal{
		Id:                 o.ID,
		CustomerId:         o.CustomerID,
		Status:             o.Status.String(),
		TotalCents:         o.TotalCents,
		Currency:           o.Currency.String(),
		PaymentAmountCents: o.Payment.AmountCents,
		PaymentDescription: o.Payment.Description,
		PaymentQRCode:      o.Payment.QRCode,
		PaymentStatus:      o.Payment.Status,
		PaymentProviderId:  providerID,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func scan(row interface{ Scan(dest ...any) error }) (order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.Status,
		&dal.TotalCents,
		&dal.Currency,
		&dal.PaymentAmountCents,
		&dal.PaymentDescription,
		&dal.PaymentQRCode,
		&dal.PaymentStatus,
		&dal.PaymentProviderId,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	return dal.ToModel()
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.Conn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts an order row and returns it with its id. Items are not written.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	dal := OrderDalFromModel(&o)

	sql, args, err := r.sb.Insert("orders").
		Columns(columns[1:]...).
		Values(
			dal.CustomerId,
			dal.Status,
			dal.TotalCents,
			dal.Currency,
			dal.PaymentAmountCents,
			dal.PaymentDescription,
			dal.PaymentQRCode,
			dal.PaymentStatus,
			dal.PaymentProviderId,
			dal.CreatedAt,
			dal.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// Query retrieves orders based on filter criteria, oldest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.sb.Select(columns...).From("orders").OrderBy("created_at ASC", "id ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		query = query.Where(sq.Eq{"status": statuses})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if len(filter.PaymentProviderIds) > 0 {
		query = query.Where(sq.Eq{"payment_provider_id": filter.PaymentProviderIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	if filter.ForUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status of order id.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status order.Status,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.Update("orders").
		Set("status", status.String()).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	return r.exec(ctx, id, sql, args)
}

// UpdatePayment overwrites the payment sub-record of order id.
func (r *PostgresOrderRepository) UpdatePayment(
	ctx context.Context,
	id int64,
	p payment.Payment,
	updatedAt time.Time,
) error {
	var providerID *string
	if p.ProviderID != "" {
		providerID = &p.ProviderID
	}

	sql, args, err := r.sb.Update("orders").
		Set("payment_amount_cents", p.AmountCents).
		Set("payment_description", p.Description).
		Set("payment_qrcode", p.QRCode).
		Set("payment_status", p.Status).
		Set("payment_provider_id", providerID).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	return r.exec(ctx, id, sql, args)
}

func (r *PostgresOrderRepository) exec(ctx context.Context, id int64, sql string, args []any) error {
	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order %d not found", id)
	}

	return nil
}
