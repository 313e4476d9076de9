package customersvc

import (
	"context"
	"errors"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/icustomerrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	customerrepo "github.com/corray333/backend-labs/lanchonete/internal/dal/repositories/customer/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
	"github.com/corray333/backend-labs/lanchonete/internal/service/validate"
	"github.com/corray333/backend-labs/lanchonete/pkg/authtoken"
	"go.opentelemetry.io/otel"
)

type tokenIssuer interface {
	Issue(id authtoken.Identity) (string, error)
}

// CustomerService is the customer directory.
type CustomerService struct {
	repo   icustomerrepo.ICustomerRepository
	tokens tokenIssuer
	now    func() time.Time
}

type option func(*CustomerService)

// MustNewCustomerService creates a new CustomerService.
func MustNewCustomerService(opts ...option) *CustomerService {
	s := &CustomerService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		panic("customersvc: postgres client is required")
	}
	if s.tokens == nil {
		panic("customersvc: token issuer is required")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CustomerService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CustomerService) {
		s.repo = customerrepo.NewPostgresCustomerRepository(pgClient.Pool())
	}
}

// WithTokenIssuer sets the signer of customer tokens.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenIssuer(t tokenIssuer) option {
	return func(s *CustomerService) {
		s.tokens = t
	}
}

// Save registers a customer. The CPF must be valid and not registered yet.
func (s *CustomerService) Save(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CustomerService.Save")
	defer span.End()

	c.CPF = validate.NormalizeCPF(c.CPF)
	err := validate.New().
		Required("name", c.Name).
		MaxLen("name", c.Name, 100).
		Email("email", c.Email).
		CPF("cpf", c.CPF).
		Err()
	if err != nil {
		return customer.Customer{}, err
	}

	_, err = s.repo.GetByCPF(ctx, c.CPF)
	switch {
	case err == nil:
		return customer.Customer{}, apperr.Validation("cpf %s is already registered", c.CPF)
	case !errors.Is(err, apperr.ErrNotFound):
		return customer.Customer{}, err
	}

	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt

	return s.repo.Insert(ctx, c)
}

// GetByCPF returns the customer registered with cpf.
func (s *CustomerService) GetByCPF(ctx context.Context, cpf string) (customer.Customer, error) {
	return s.repo.GetByCPF(ctx, validate.NormalizeCPF(cpf))
}

// Update changes name and email of the customer registered with cpf.
func (s *CustomerService) Update(ctx context.Context, cpf string, c customer.Customer) (customer.Customer, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CustomerService.Update")
	defer span.End()

	existing, err := s.GetByCPF(ctx, cpf)
	if err != nil {
		return customer.Customer{}, err
	}

	err = validate.New().
		Required("name", c.Name).
		MaxLen("name", c.Name, 100).
		Email("email", c.Email).
		Err()
	if err != nil {
		return customer.Customer{}, err
	}

	existing.Name = c.Name
	existing.Email = c.Email
	existing.UpdatedAt = s.now()

	return s.repo.Update(ctx, existing)
}

// Delete removes the customer registered with cpf unless they have orders.
func (s *CustomerService) Delete(ctx context.Context, cpf string) error {
	ctx, span := otel.Tracer("service").Start(ctx, "CustomerService.Delete")
	defer span.End()

	existing, err := s.GetByCPF(ctx, cpf)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, existing.ID)
}

// IssueToken returns a signed token for the customer registered with cpf.
func (s *CustomerService) IssueToken(ctx context.Context, cpf string) (string, error) {
	c, err := s.GetByCPF(ctx, cpf)
	if err != nil {
		return "", err
	}

	return s.tokens.Issue(authtoken.Identity{
		CustomerID: c.ID,
		CPF:        c.CPF,
		Name:       c.Name,
		Email:      c.Email,
	})
}
