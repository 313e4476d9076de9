package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/mercadopago"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/redis"
	outboxrepo "github.com/corray333/backend-labs/lanchonete/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/lanchonete/internal/dal/repositories/product/postgres"
	redisrepo "github.com/corray333/backend-labs/lanchonete/internal/dal/repositories/product/redis"
	"github.com/corray333/backend-labs/lanchonete/internal/otel"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/categorysvc"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/customersvc"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/productsvc"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/consumer"
	httptransport "github.com/corray333/backend-labs/lanchonete/internal/transport/http"
	"github.com/corray333/backend-labs/lanchonete/internal/worker/outbox"
	"github.com/corray333/backend-labs/lanchonete/pkg/authtoken"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	consumer       *consumer.Consumer
	outboxWorker   *outbox.Worker
	postgresClient *postgres.Client
	redisClient    *redis.Client
	rabbitClient   *rabbitmq.Client
	otel           *otel.OtelController
}

// MustNewApp connects the infrastructure and wires services and transports.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	redisClient := redis.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()
	paymentClient := mercadopago.MustNewClient()

	eventsQueue := viper.GetString("rabbitmq.events_queue")
	paymentsQueue := viper.GetString("rabbitmq.payments_queue")
	for _, q := range []string{eventsQueue, paymentsQueue} {
		if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{Name: q, Durable: true}); err != nil {
			panic("failed to declare queue " + q + ": " + err.Error())
		}
	}

	secret := os.Getenv("AUTH_TOKEN_SECRET")
	if secret == "" {
		panic("AUTH_TOKEN_SECRET is not set")
	}
	codec := authtoken.NewCodec(secret, viper.GetString("auth.issuer"), viper.GetDuration("auth.token_ttl"))

	categorySvc := categorysvc.MustNewCategoryService(
		categorysvc.WithPostgresClient(postgresClient),
	)
	productSvc := productsvc.MustNewProductService(
		productsvc.WithRepository(redisrepo.NewCachedRepository(
			productrepo.NewPostgresProductRepository(postgresClient.Pool()),
			redisClient.Redis(),
			viper.GetDuration("redis.product_ttl"),
		)),
		productsvc.WithCategories(categorySvc),
	)
	customerSvc := customersvc.MustNewCustomerService(
		customersvc.WithPostgresClient(postgresClient),
		customersvc.WithTokenIssuer(codec),
	)
	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithCatalog(productSvc),
		ordersvc.WithCustomers(customerSvc),
		ordersvc.WithPaymentProvider(paymentClient),
		ordersvc.WithEventsQueue(eventsQueue, viper.GetInt("rabbitmq.outbox.max_retries")),
		ordersvc.WithDefaultPayerEmail(viper.GetString("payment.default_payer_email")),
	)
	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithProvider(paymentClient),
		paymentsvc.WithOrders(orderSvc),
	)

	transport := httptransport.NewHTTPTransport(httptransport.Services{
		Categories: categorySvc,
		Products:   productSvc,
		Customers:  customerSvc,
		Orders:     orderSvc,
		Payments:   paymentSvc,
		Tokens:     codec,
	})
	transport.RegisterRoutes()

	return &App{
		transport:      transport,
		consumer:       consumer.NewConsumer(rabbitClient, paymentSvc, paymentsQueue),
		outboxWorker:   outbox.NewWorker(outboxrepo.NewOutboxRepository(postgresClient.Pool()), rabbitClient),
		postgresClient: postgresClient,
		redisClient:    redisClient,
		rabbitClient:   rabbitClient,
		otel:           otelController,
	}
}

// Run starts the HTTP server, the payment consumer and the outbox worker.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})
	g.Go(func() error {
		a.outboxWorker.Start(gctx)

		return nil
	})
	g.Go(func() error {
		return a.consumer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")
		a.shutdown()

		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Application stopped with error", "error", err)
	}

	slog.Info("Application shutdown complete")
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("server.shutdown_timeout"))
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	if err := a.consumer.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	}

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}
}
