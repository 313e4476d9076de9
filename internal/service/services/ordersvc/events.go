package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/event"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/outbox"
	"github.com/google/uuid"
)

// enqueue writes an order event to the outbox inside the current unit of work.
func (s *OrderService) enqueue(ctx context.Context, work unitOfWork, eventType string, o order.Order) error {
	payload, err := json.Marshal(event.OrderEvent{
		Type:          eventType,
		OrderID:       o.ID,
		Status:        o.Status.String(),
		PaymentStatus: o.Payment.Status,
		TotalCents:    o.TotalCents,
		OccurredAt:    o.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	now := s.now()
	err = work.OutboxRepository().Insert(ctx, outbox.OutboxMessage{
		MessageID:   uuid.NewString(),
		QueueName:   s.eventsQueue,
		RoutingKey:  s.eventsQueue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  s.maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", eventType, err)
	}

	return nil
}
