package iorderrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status, updatedAt time.Time) error
	UpdatePayment(ctx context.Context, id int64, p payment.Payment, updatedAt time.Time) error
}
