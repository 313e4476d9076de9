package categorysvc

import (
	"context"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/icategoryrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/dal/postgres"
	categoryrepo "github.com/corray333/backend-labs/lanchonete/internal/dal/repositories/category/postgres"
	productrepo "github.com/corray333/backend-labs/lanchonete/internal/dal/repositories/product/postgres"
	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/corray333/backend-labs/lanchonete/internal/service/validate"
	"go.opentelemetry.io/otel"
)

type products interface {
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
}

// CategoryService manages menu categories.
type CategoryService struct {
	repo     icategoryrepo.ICategoryRepository
	products products
}

type option func(*CategoryService)

// MustNewCategoryService creates a new CategoryService.
func MustNewCategoryService(opts ...option) *CategoryService {
	s := &CategoryService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil || s.products == nil {
		panic("categorysvc: postgres client is required")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CategoryService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CategoryService) {
		s.repo = categoryrepo.NewPostgresCategoryRepository(pgClient.Pool())
		s.products = productrepo.NewPostgresProductRepository(pgClient.Pool())
	}
}

func check(c category.Category) error {
	return validate.New().
		Required("name", c.Name).
		MaxLen("name", c.Name, 100).
		Required("description", c.Description).
		MaxLen("description", c.Description, 500).
		Err()
}

// Save creates a category.
func (s *CategoryService) Save(ctx context.Context, c category.Category) (category.Category, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CategoryService.Save")
	defer span.End()

	if err := check(c); err != nil {
		return category.Category{}, err
	}

	return s.repo.Insert(ctx, c)
}

// Update overwrites category c.ID.
func (s *CategoryService) Update(ctx context.Context, c category.Category) (category.Category, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "CategoryService.Update")
	defer span.End()

	if err := check(c); err != nil {
		return category.Category{}, err
	}

	return s.repo.Update(ctx, c)
}

// Get returns category id.
func (s *CategoryService) Get(ctx context.Context, id int64) (category.Category, error) {
	return s.repo.Get(ctx, id)
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]category.Category, error) {
	return s.repo.List(ctx)
}

// Delete removes category id unless products are still linked to it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("service").Start(ctx, "CategoryService.Delete")
	defer span.End()

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	linked, err := s.products.Query(ctx, &product.QueryProductsModel{CategoryIds: []int64{id}, Limit: 1})
	if err != nil {
		return err
	}
	if len(linked) > 0 {
		return apperr.Validation("category %d has linked products", id)
	}

	return s.repo.Delete(ctx, id)
}
