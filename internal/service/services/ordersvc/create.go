package ordersvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/event"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"github.com/corray333/backend-labs/lanchonete/internal/service/validate"
	"go.opentelemetry.io/otel"
)

// Create validates and prices a new order and stores it as Pending.
// Every item is resolved against the catalog before anything is written,
// so a failed call leaves no partial order behind.
func (s *OrderService) Create(ctx context.Context, model order.CreateOrderModel) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Create")
	defer span.End()

	if len(model.Items) == 0 {
		return order.Order{}, apperr.Validation("no items were added to the order")
	}

	items, units, err := s.price(ctx, model.Items)
	if err != nil {
		return order.Order{}, err
	}

	total, err := (&order.Order{Items: items}).ItemsTotalCents()
	if errors.Is(err, currency.ErrOutOfRange) {
		return order.Order{}, apperr.Validation("order total is out of range")
	}
	if err != nil {
		return order.Order{}, err
	}

	var customerID *int64
	if model.CustomerCPF != "" {
		c, err := s.customers.GetByCPF(ctx, validate.NormalizeCPF(model.CustomerCPF))
		if err != nil {
			return order.Order{}, err
		}
		customerID = &c.ID
	}

	now := s.now()
	o := order.Order{
		CustomerID: customerID,
		TotalCents: total,
		Currency:   currency.CurrencyBRL,
		Status:     order.StatusPending,
		Payment: payment.Payment{
			AmountCents: total,
			Description: fmt.Sprintf("Pedido de %d item(s)", units),
			Status:      payment.StatusPending,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer work.Rollback(ctx) //nolint:errcheck

	o, err = work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	for i := range items {
		items[i].OrderID = o.ID
		items[i].CreatedAt = now
	}
	o.Items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.enqueue(ctx, work, event.TypeOrderCreated, o); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// price resolves every requested item against the catalog, in order, and
// returns the snapshotted items and the number of units.
// Client supplied names and prices are ignored.
func (s *OrderService) price(
	ctx context.Context,
	requested []orderitem.OrderItem,
) ([]orderitem.OrderItem, int, error) {
	items := make([]orderitem.OrderItem, 0, len(requested))
	var units int

	for _, req := range requested {
		if err := validate.New().
			RequiredID("productId", req.ProductID).
			Positive("quantity", int64(req.Quantity)).
			Max("quantity", int64(req.Quantity), orderitem.MaxQuantity).
			Err(); err != nil {
			return nil, 0, err
		}

		p, err := s.catalog.Get(ctx, req.ProductID)
		if errors.Is(err, apperr.ErrNotFound) || (err == nil && p.ID == 0) {
			return nil, 0, apperr.NotFound("product with id '%d' does not exist", req.ProductID)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get product %d: %w", req.ProductID, err)
		}

		item := orderitem.OrderItem{
			ProductID:      p.ID,
			Quantity:       req.Quantity,
			ProductName:    p.Name,
			SalePriceCents: p.PriceCents,
			Currency:       p.Currency,
		}
		if item.Currency == "" {
			item.Currency = currency.CurrencyBRL
		}
		units += item.Quantity
		items = append(items, item)
	}

	return items, units, nil
}
