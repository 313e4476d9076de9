package iproductrepo

import (
	"context"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
)

// IProductRepository is an interface for product repository.
// Get, Update and Delete return an apperr not found error for unknown ids.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (product.Product, error)
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
}
