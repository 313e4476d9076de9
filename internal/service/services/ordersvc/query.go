package ordersvc

import (
	"cmp"
	"context"
	"slices"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/service/validate"
	"go.opentelemetry.io/otel"
)

// Get returns order id with its items.
func (s *OrderService) Get(ctx context.Context, id int64) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Get")
	defer span.End()

	work := s.newUOW()

	o, err := getOne(ctx, work, &order.QueryOrdersModel{Ids: []int64{id}})
	if err != nil {
		return order.Order{}, err
	}

	if err := loadItems(ctx, work, []*order.Order{&o}); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// ListActive returns the orders on the kitchen board: Ready first, then
// InPreparation, then Received, oldest first within each status.
func (s *OrderService) ListActive(ctx context.Context) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListActive")
	defer span.End()

	orders, err := s.query(ctx, &order.QueryOrdersModel{Statuses: order.ActiveStatuses})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(orders, func(a, b order.Order) int {
		if c := cmp.Compare(a.Status.ActivePriority(), b.Status.ActivePriority()); c != 0 {
			return c
		}

		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return orders, nil
}

// ListByCustomer returns the orders of the customer registered with cpf.
func (s *OrderService) ListByCustomer(ctx context.Context, cpf string) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListByCustomer")
	defer span.End()

	c, err := s.customers.GetByCPF(ctx, validate.NormalizeCPF(cpf))
	if err != nil {
		return nil, err
	}

	return s.query(ctx, &order.QueryOrdersModel{CustomerIds: []int64{c.ID}})
}

func (s *OrderService) query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	ptrs := make([]*order.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := loadItems(ctx, work, ptrs); err != nil {
		return nil, err
	}

	return orders, nil
}

func getOne(ctx context.Context, work unitOfWork, filter *order.QueryOrdersModel) (order.Order, error) {
	filter.Limit = 1

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return order.Order{}, err
	}

	if len(orders) == 0 {
		switch {
		case len(filter.Ids) > 0:
			return order.Order{}, apperr.NotFound("order %d not found", filter.Ids[0])
		case len(filter.PaymentProviderIds) > 0:
			return order.Order{}, apperr.NotFound("no order for payment %s", filter.PaymentProviderIds[0])
		default:
			return order.Order{}, apperr.NotFound("order not found")
		}
	}

	return orders[0], nil
}

// loadItems attaches the items of every order with one query.
func loadItems(ctx context.Context, work unitOfWork, orders []*order.Order) error {
	itemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemQuery.OrderIds = append(itemQuery.OrderIds, o.ID)
	}

	items, err := work.OrderItemRepository().Query(ctx, itemQuery)
	if err != nil {
		return err
	}

	byOrder := make(map[int64][]orderitem.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for _, o := range orders {
		o.Items = byOrder[o.ID]
		if o.Items == nil {
			o.Items = []orderitem.OrderItem{}
		}
	}

	return nil
}
