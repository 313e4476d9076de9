package paymentsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	status string
	err    error
	calls  int
}

func (f *fakeProvider) GetPayment(_ context.Context, id string) (payment.ProviderPayment, error) {
	f.calls++
	if f.err != nil {
		return payment.ProviderPayment{}, f.err
	}

	return payment.ProviderPayment{ID: id, Status: f.status}, nil
}

type update struct {
	ref, status string
}

type fakeOrders struct {
	updates []update
	err     error
}

func (f *fakeOrders) UpdateStatusPayment(_ context.Context, ref, status string) (order.Order, error) {
	if f.err != nil {
		return order.Order{}, f.err
	}
	f.updates = append(f.updates, update{ref, status})

	return order.Order{ID: 3}, nil
}

func TestHandleWebhook_EmptyID(t *testing.T) {
	p, o := &fakeProvider{}, &fakeOrders{}
	svc := MustNewPaymentService(WithProvider(p), WithOrders(o))

	res, err := svc.HandleWebhook(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, WebhookActive, res.Message)
	assert.Zero(t, p.calls)
	assert.Empty(t, o.updates)
}

func TestHandleWebhook(t *testing.T) {
	p, o := &fakeProvider{status: payment.StatusApproved}, &fakeOrders{}
	svc := MustNewPaymentService(WithProvider(p), WithOrders(o))

	res, err := svc.HandleWebhook(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", res.Payment)
	assert.Equal(t, payment.StatusApproved, res.Status)
	assert.Equal(t, int64(3), res.OrderID)
	assert.Equal(t, []update{{"123", payment.StatusApproved}}, o.updates)
}

func TestHandleWebhook_Errors(t *testing.T) {
	upstream := apperr.Upstream(errors.New("503"), "provider unavailable")
	svc := MustNewPaymentService(WithProvider(&fakeProvider{err: upstream}), WithOrders(&fakeOrders{}))
	_, err := svc.HandleWebhook(context.Background(), "1")
	assert.ErrorIs(t, err, apperr.ErrUpstream)

	svc = MustNewPaymentService(
		WithProvider(&fakeProvider{status: payment.StatusApproved}),
		WithOrders(&fakeOrders{err: apperr.NotFound("no order for payment 1")}),
	)
	_, err = svc.HandleWebhook(context.Background(), "1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
