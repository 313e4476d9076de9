package icustomerrepo

import (
	"context"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
)

// ICustomerRepository is an interface for customer repository.
type ICustomerRepository interface {
	Insert(ctx context.Context, c customer.Customer) (customer.Customer, error)
	Update(ctx context.Context, c customer.Customer) (customer.Customer, error)
	Delete(ctx context.Context, id int64) error
	GetByCPF(ctx context.Context, cpf string) (customer.Customer, error)
}
