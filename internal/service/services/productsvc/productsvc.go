package productsvc

import (
	"context"
	"errors"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/corray333/backend-labs/lanchonete/internal/service/validate"
	"go.opentelemetry.io/otel"
)

type categories interface {
	Get(ctx context.Context, id int64) (category.Category, error)
}

// ProductService manages the catalog.
type ProductService struct {
	repo       iproductrepo.IProductRepository
	categories categories
	now        func() time.Time
}

type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		panic("productsvc: repository is required")
	}
	if s.categories == nil {
		panic("productsvc: category lookup is required")
	}

	return s
}

// WithRepository sets the product repository, usually the cached one.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iproductrepo.IProductRepository) option {
	return func(s *ProductService) {
		s.repo = repo
	}
}

// WithCategories sets the category lookup used to validate products.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCategories(c categories) option {
	return func(s *ProductService) {
		s.categories = c
	}
}

func (s *ProductService) check(ctx context.Context, p *product.Product) error {
	err := validate.New().
		Required("name", p.Name).
		MaxLen("name", p.Name, 100).
		Required("description", p.Description).
		MaxLen("description", p.Description, 500).
		Positive("price", p.PriceCents).
		RequiredID("categoryId", p.CategoryID).
		Err()
	if err != nil {
		return err
	}

	if p.Currency == "" {
		p.Currency = currency.CurrencyBRL
	}

	_, err = s.categories.Get(ctx, p.CategoryID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Validation("invalid category")
	}

	return err
}

// Save adds a product to the catalog.
func (s *ProductService) Save(ctx context.Context, p product.Product) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.Save")
	defer span.End()

	if err := s.check(ctx, &p); err != nil {
		return product.Product{}, err
	}

	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	return s.repo.Insert(ctx, p)
}

// Update overwrites product p.ID. Existing orders keep their price snapshot.
func (s *ProductService) Update(ctx context.Context, p product.Product) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.Update")
	defer span.End()

	if err := s.check(ctx, &p); err != nil {
		return product.Product{}, err
	}

	p.UpdatedAt = s.now()

	return s.repo.Update(ctx, p)
}

// Get returns product id. It is the catalog lookup used when pricing orders.
func (s *ProductService) Get(ctx context.Context, id int64) (product.Product, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes product id unless it is referenced by orders.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.Delete")
	defer span.End()

	return s.repo.Delete(ctx, id)
}

// ListByCategory returns the products of category categoryID.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64) ([]product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.ListByCategory")
	defer span.End()

	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}

	return s.repo.Query(ctx, &product.QueryProductsModel{CategoryIds: []int64{categoryID}})
}
