package ordersvc

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/outbox"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
)

// fakeStore is the shared in-memory state behind every fakeUOW.
type fakeStore struct {
	orders  map[int64]order.Order
	items   []orderitem.OrderItem
	outbox  []outbox.OutboxMessage
	nextID  int64
	writes  int
	begins  int
	commits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[int64]order.Order{}}
}

func (f *fakeStore) put(o order.Order) order.Order {
	f.nextID++
	o.ID = f.nextID
	f.orders[o.ID] = o

	return o
}

type fakeUOW struct {
	store *fakeStore
}

func (u *fakeUOW) Begin(context.Context) error {
	u.store.begins++

	return nil
}

func (u *fakeUOW) Commit(context.Context) error {
	u.store.commits++

	return nil
}

func (u *fakeUOW) Rollback(context.Context) error { return nil }

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &fakeOrderRepo{u.store}
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &fakeOrderItemRepo{u.store}
}

func (u *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &fakeOutboxRepo{u.store}
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	r.store.writes++

	return r.store.put(o), nil
}

func (r *fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	result := []order.Order{}
	for _, o := range r.store.orders {
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, o.ID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
			continue
		}
		if len(filter.CustomerIds) > 0 && (o.CustomerID == nil || !slices.Contains(filter.CustomerIds, *o.CustomerID)) {
			continue
		}
		if len(filter.PaymentProviderIds) > 0 && !slices.Contains(filter.PaymentProviderIds, o.Payment.ProviderID) {
			continue
		}
		result = append(result, o)
	}

	slices.SortFunc(result, func(a, b order.Order) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return int(a.ID - b.ID)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status order.Status, updatedAt time.Time) error {
	o, ok := r.store.orders[id]
	if !ok {
		return apperr.NotFound("order %d not found", id)
	}
	r.store.writes++
	o.Status = status
	o.UpdatedAt = updatedAt
	r.store.orders[id] = o

	return nil
}

func (r *fakeOrderRepo) UpdatePayment(_ context.Context, id int64, p payment.Payment, updatedAt time.Time) error {
	o, ok := r.store.orders[id]
	if !ok {
		return apperr.NotFound("order %d not found", id)
	}
	r.store.writes++
	o.Payment = p
	o.UpdatedAt = updatedAt
	r.store.orders[id] = o

	return nil
}

type fakeOrderItemRepo struct {
	store *fakeStore
}

func (r *fakeOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	r.store.writes++
	out := make([]orderitem.OrderItem, len(items))
	for i, item := range items {
		item.ID = int64(len(r.store.items) + 1)
		r.store.items = append(r.store.items, item)
		out[i] = item
	}

	return out, nil
}

func (r *fakeOrderItemRepo) Query(_ context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	var out []orderitem.OrderItem
	for _, item := range r.store.items {
		if len(filter.OrderIds) > 0 && !slices.Contains(filter.OrderIds, item.OrderID) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

type fakeOutboxRepo struct {
	store *fakeStore
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	r.store.writes++
	r.store.outbox = append(r.store.outbox, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(context.Context, int) ([]outbox.OutboxMessage, error) {
	return r.store.outbox, nil
}

func (r *fakeOutboxRepo) Delete(context.Context, int64) error { return nil }

func (r *fakeOutboxRepo) UpdateRetry(context.Context, int64, int, string, time.Time) error { return nil }

type fakeCatalog map[int64]product.Product

func (c fakeCatalog) Get(_ context.Context, id int64) (product.Product, error) {
	p, ok := c[id]
	if !ok {
		return product.Product{}, apperr.NotFound("product %d not found", id)
	}

	return p, nil
}

type fakeCustomers map[string]customer.Customer

func (c fakeCustomers) GetByCPF(_ context.Context, cpf string) (customer.Customer, error) {
	cu, ok := c[cpf]
	if !ok {
		return customer.Customer{}, apperr.NotFound("customer with cpf %s not found", cpf)
	}

	return cu, nil
}

type fakePayments struct {
	calls  int
	charge payment.Charge
	result payment.ProviderPayment
	err    error
}

func (f *fakePayments) CreateCharge(_ context.Context, charge payment.Charge) (payment.ProviderPayment, error) {
	f.calls++
	f.charge = charge

	return f.result, f.err
}

func withUOW(store *fakeStore) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork {
			return &fakeUOW{store: store}
		}
	}
}

var testCatalog = fakeCatalog{
	1: {ID: 1, Name: "Hamburguer", PriceCents: 1099, Currency: currency.CurrencyBRL},
	2: {ID: 2, Name: "Batata frita", PriceCents: 599, Currency: currency.CurrencyBRL},
	3: {ID: 3, Name: "Coca-cola", PriceCents: 899, Currency: currency.CurrencyBRL},
	4: {ID: 4, Name: "Banquete", PriceCents: math.MaxInt64 / 2, Currency: currency.CurrencyBRL},
}

var testCustomers = fakeCustomers{
	"52998224725": {ID: 10, Name: "Ana", Email: "ana@example.com", CPF: "52998224725"},
}
