package paymentsvc

import (
	"context"
	"log/slog"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"go.opentelemetry.io/otel"
)

// WebhookActive is returned for notifications that carry no payment id.
const WebhookActive = "webhook active"

type provider interface {
	GetPayment(ctx context.Context, id string) (payment.ProviderPayment, error)
}

type orders interface {
	UpdateStatusPayment(ctx context.Context, paymentRef, providerStatus string) (order.Order, error)
}

// WebhookResult is the outcome of one provider notification.
type WebhookResult struct {
	Message string `json:"message,omitempty"`
	Payment string `json:"pagamento,omitempty"`
	Status  string `json:"status,omitempty"`
	OrderID int64  `json:"orderId,omitempty"`
}

// PaymentService handles payment provider notifications.
type PaymentService struct {
	provider provider
	orders   orders
}

type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.provider == nil || s.orders == nil {
		panic("paymentsvc: provider and order service are required")
	}

	return s
}

// WithProvider sets the payment provider gateway.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProvider(p provider) option {
	return func(s *PaymentService) {
		s.provider = p
	}
}

// WithOrders sets the order service notified of payment changes.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrders(o orders) option {
	return func(s *PaymentService) {
		s.orders = o
	}
}

// HandleWebhook fetches the current state of paymentID from the provider and
// applies it to the order bound to it. An empty id only acknowledges that the
// webhook is reachable.
func (s *PaymentService) HandleWebhook(ctx context.Context, paymentID string) (WebhookResult, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "PaymentService.HandleWebhook")
	defer span.End()

	if paymentID == "" {
		return WebhookResult{Message: WebhookActive}, nil
	}

	p, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return WebhookResult{}, err
	}

	o, err := s.orders.UpdateStatusPayment(ctx, paymentID, p.Status)
	if err != nil {
		return WebhookResult{}, err
	}

	slog.Info("Payment status applied", "payment_id", paymentID, "status", p.Status, "order_id", o.ID)

	return WebhookResult{Payment: paymentID, Status: p.Status, OrderID: o.ID}, nil
}
