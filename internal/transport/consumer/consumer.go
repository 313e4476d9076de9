package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/paymentsvc"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

type service interface {
	HandleWebhook(ctx context.Context, paymentID string) (paymentsvc.WebhookResult, error)
}

type broker interface {
	Consume(cfg rabbitmq.ConsumeConfig) (<-chan amqp.Delivery, error)
}

// acknowledger is the part of amqp.Delivery the consumer settles messages with.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Notification is a payment notification relayed from the provider.
type Notification struct {
	PaymentID string `json:"paymentId"`
}

// Consumer applies payment notifications queued by the provider relay.
type Consumer struct {
	client  broker
	service service
	queue   string
	stop    chan struct{}
	done    chan struct{}
}

// NewConsumer creates a new Consumer reading queue.
func NewConsumer(client broker, service service, queue string) *Consumer {
	return &Consumer{
		client:  client,
		service: service,
		queue:   queue,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run consumes until Shutdown is called or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "lanchonete"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue,
		Consumer: consumerTag,
	})
	if err != nil {
		close(c.done)

		return err
	}

	slog.Info("Consumer started", "queue", c.queue, "consumer_tag", consumerTag)

	limit := viper.GetInt("rabbitmq.concurrency")
	if limit <= 0 {
		limit = 10
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

loop:
	for {
		select {
		case <-c.stop:
			slog.Info("Stopping consumer")

			break loop
		case <-ctx.Done():
			slog.Info("Consumer context done")

			break loop
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed")

				break loop
			}

			g.Go(func() error {
				c.process(gctx, msg.Body, msg)

				return nil
			})
		}
	}

	_ = g.Wait()
	close(c.done)

	return nil
}

// process settles one message. Malformed messages and domain rejections are dropped;
// provider and infrastructure failures are requeued.
func (c *Consumer) process(ctx context.Context, body []byte, msg acknowledger) {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.process")
	defer span.End()

	var n Notification
	if err := json.Unmarshal(body, &n); err != nil || n.PaymentID == "" {
		slog.Error("Dropping malformed payment notification", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return
	}

	res, err := c.service.HandleWebhook(ctx, n.PaymentID)
	if err != nil {
		requeue := !errors.Is(err, apperr.ErrValidation) && !errors.Is(err, apperr.ErrNotFound)
		slog.Error("Failed to apply payment notification", "payment_id", n.PaymentID, "requeue", requeue, "error", err)
		if err := msg.Nack(false, requeue); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return
	}

	slog.Info("Payment notification applied", "payment_id", n.PaymentID, "order_id", res.OrderID, "status", res.Status)
}

// Shutdown stops consuming and waits for in-flight messages.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
