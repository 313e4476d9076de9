package ordersvc

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/uow"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
)

const (
	defaultEventsQueue = "orders.events"
	defaultMaxRetries  = 5
)

// OrderService owns the order lifecycle: pricing on creation, the status
// state machine and payment status updates.
type OrderService struct {
	newUOW      func() unitOfWork
	catalog     catalog
	customers   customers
	payments    paymentProvider
	now         func() time.Time
	eventsQueue string
	maxRetries  int
	payerEmail  string
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

type catalog interface {
	Get(ctx context.Context, id int64) (product.Product, error)
}

type customers interface {
	GetByCPF(ctx context.Context, cpf string) (customer.Customer, error)
}

type paymentProvider interface {
	CreateCharge(ctx context.Context, charge payment.Charge) (payment.ProviderPayment, error)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now:         time.Now,
		eventsQueue: defaultEventsQueue,
		maxRetries:  defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("ordersvc: postgres client is required")
	}
	if s.catalog == nil {
		panic("ordersvc: catalog is required")
	}
	if s.customers == nil {
		panic("ordersvc: customer directory is required")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithCatalog sets the product lookup used to price items.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(c catalog) option {
	return func(s *OrderService) {
		s.catalog = c
	}
}

// WithCustomers sets the customer directory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomers(c customers) option {
	return func(s *OrderService) {
		s.customers = c
	}
}

// WithPaymentProvider sets the gateway used by RequestPayment.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentProvider(p paymentProvider) option {
	return func(s *OrderService) {
		s.payments = p
	}
}

// WithEventsQueue sets the queue order events are routed to.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventsQueue(queue string, maxRetries int) option {
	return func(s *OrderService) {
		if queue != "" {
			s.eventsQueue = queue
		}
		if maxRetries > 0 {
			s.maxRetries = maxRetries
		}
	}
}

// WithDefaultPayerEmail sets the payer email used for anonymous orders.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDefaultPayerEmail(email string) option {
	return func(s *OrderService) {
		s.payerEmail = email
	}
}

// WithClock overrides time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}
