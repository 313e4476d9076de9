package ordersvc

import (
	"context"
	"fmt"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/event"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// UpdateStatusPayment records the provider status of payment paymentRef on its order.
// An approved payment moves a Pending order to Received. Any other status,
// rejection included, only updates the payment sub-record.
func (s *OrderService) UpdateStatusPayment(
	ctx context.Context,
	paymentRef string,
	providerStatus string,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.UpdateStatusPayment")
	defer span.End()
	span.SetAttributes(attribute.String("payment.ref", paymentRef), attribute.String("payment.status", providerStatus))

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer work.Rollback(ctx) //nolint:errcheck

	o, err := getOne(ctx, work, &order.QueryOrdersModel{PaymentProviderIds: []string{paymentRef}, ForUpdate: true})
	if err != nil {
		return order.Order{}, err
	}

	o.UpdatedAt = s.now()
	o.Payment.Status = providerStatus
	if err := work.OrderRepository().UpdatePayment(ctx, o.ID, o.Payment, o.UpdatedAt); err != nil {
		return order.Order{}, err
	}

	if providerStatus == payment.StatusApproved && o.Status == order.StatusPending {
		o.Status = order.StatusReceived
		if err := work.OrderRepository().UpdateStatus(ctx, o.ID, o.Status, o.UpdatedAt); err != nil {
			return order.Order{}, err
		}
	}

	if err := s.enqueue(ctx, work, event.TypeOrderPaymentUpdate, o); err != nil {
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

// RequestPayment opens a charge with the payment provider for a Pending order
// and stores its QR code and provider id. An order that already has a charge
// is returned unchanged.
func (s *OrderService) RequestPayment(ctx context.Context, id int64, payerEmail string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.RequestPayment")
	defer span.End()

	if s.payments == nil {
		return order.Order{}, fmt.Errorf("failed to request payment: no payment provider configured")
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if o.Status != order.StatusPending {
		return order.Order{}, apperr.Validation("only pending orders can be paid")
	}

	if o.Payment.ProviderID != "" {
		return o, nil
	}

	if payerEmail == "" {
		payerEmail = s.payerEmail
	}

	charge, err := s.payments.CreateCharge(ctx, payment.Charge{
		AmountCents:       o.TotalCents,
		Description:       o.Payment.Description,
		ExternalReference: fmt.Sprintf("order-%d", o.ID),
		PayerEmail:        payerEmail,
	})
	if err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer work.Rollback(ctx) //nolint:errcheck

	locked, err := getOne(ctx, work, &order.QueryOrdersModel{Ids: []int64{id}, ForUpdate: true})
	if err != nil {
		return order.Order{}, err
	}
	if locked.Payment.ProviderID != "" {
		locked.Items = o.Items

		return locked, nil
	}

	locked.UpdatedAt = s.now()
	locked.Payment.ProviderID = charge.ID
	locked.Payment.QRCode = charge.QRCode
	if charge.Status != "" {
		locked.Payment.Status = charge.Status
	}
	if err := work.OrderRepository().UpdatePayment(ctx, locked.ID, locked.Payment, locked.UpdatedAt); err != nil {
		return order.Order{}, err
	}

	if err := s.enqueue(ctx, work, event.TypeOrderPaymentUpdate, locked); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	locked.Items = o.Items

	return locked, nil
}
