package event

import "time"

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderPaymentUpdate = "order.payment_updated"
)

// OrderEvent is published to the order events queue.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       int64     `json:"orderId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	TotalCents    int64     `json:"totalCents"`
	OccurredAt    time.Time `json:"occurredAt"`
}
