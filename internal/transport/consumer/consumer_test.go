package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/paymentsvc"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	err error
	ids []string
}

func (f *fakeService) HandleWebhook(_ context.Context, id string) (paymentsvc.WebhookResult, error) {
	f.ids = append(f.ids, id)

	return paymentsvc.WebhookResult{Payment: id, OrderID: 1}, f.err
}

type fakeMessage struct {
	acked, nacked, requeued bool
}

func (m *fakeMessage) Ack(bool) error {
	m.acked = true

	return nil
}

func (m *fakeMessage) Nack(_, requeue bool) error {
	m.nacked = true
	m.requeued = requeue

	return nil
}

func TestProcess(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		acked    bool
		requeued bool
		calls    int
	}{
		{"applied", `{"paymentId":"123"}`, nil, true, false, 1},
		{"malformed", `{`, nil, false, false, 0},
		{"missing id", `{}`, nil, false, false, 0},
		{"unknown payment", `{"paymentId":"9"}`, apperr.NotFound("no order for payment '9'"), false, false, 1},
		{"provider down", `{"paymentId":"9"}`, apperr.Upstream(errors.New("503"), "provider unavailable"), false, true, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{err: tc.err}
			c := NewConsumer(nil, svc, "payments.notifications")
			msg := &fakeMessage{}

			c.process(context.Background(), []byte(tc.body), msg)

			assert.Equal(t, tc.acked, msg.acked, "acked")
			assert.Equal(t, !tc.acked, msg.nacked, "nacked")
			assert.Equal(t, tc.requeued, msg.requeued, "requeued")
			assert.Len(t, svc.ids, tc.calls)
		})
	}
}

type fakeBroker struct {
	ch chan amqp.Delivery
}

func (b *fakeBroker) Consume(rabbitmq.ConsumeConfig) (<-chan amqp.Delivery, error) {
	return b.ch, nil
}

func TestRunAndShutdown(t *testing.T) {
	c := NewConsumer(&fakeBroker{ch: make(chan amqp.Delivery)}, &fakeService{}, "payments.notifications")

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Run(context.Background())
	}()

	require.NoError(t, c.Shutdown())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "Run did not return after Shutdown")
	}
}
