package ordersvc

import (
	"context"
	"slices"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/event"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ChangeStatus moves order id to newStatus along a permitted edge.
// The order row stays locked until the change and its event are committed.
func (s *OrderService) ChangeStatus(ctx context.Context, id int64, newStatus string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ChangeStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id), attribute.String("order.target_status", newStatus))

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer work.Rollback(ctx) //nolint:errcheck

	o, err := getOne(ctx, work, &order.QueryOrdersModel{Ids: []int64{id}, ForUpdate: true})
	if err != nil {
		return order.Order{}, err
	}

	target, err := order.ParseStatus(newStatus)
	if err != nil {
		return order.Order{}, apperr.Validation("invalid status")
	}

	if !o.Status.CanTransitionTo(target) {
		return order.Order{}, apperr.Validation("invalid status transition from %s to %s", o.Status, target)
	}

	o.Status = target
	o.UpdatedAt = s.now()
	if err := work.OrderRepository().UpdateStatus(ctx, o.ID, o.Status, o.UpdatedAt); err != nil {
		return order.Order{}, err
	}

	if err := s.enqueue(ctx, work, event.TypeOrderStatusChanged, o); err != nil {
		return order.Order{}, err
	}

	if err := loadItems(ctx, work, []*order.Order{&o}); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// GetAllByStatus returns every order currently in status.
func (s *OrderService) GetAllByStatus(ctx context.Context, status string) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.GetAllByStatus")
	defer span.End()

	st, err := order.ParseStatus(status)
	if err != nil {
		return nil, apperr.Validation("invalid status")
	}

	return s.query(ctx, &order.QueryOrdersModel{Statuses: []order.Status{st}})
}

// GetStatus returns the current status of order id.
func (s *OrderService) GetStatus(ctx context.Context, id int64) (order.Status, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.GetStatus")
	defer span.End()

	o, err := getOne(ctx, s.newUOW(), &order.QueryOrdersModel{Ids: []int64{id}})
	if err != nil {
		return "", err
	}

	return o.Status, nil
}

// ListStatuses returns every status in lifecycle order.
func (s *OrderService) ListStatuses() []order.Status {
	return slices.Clone(order.Statuses)
}
