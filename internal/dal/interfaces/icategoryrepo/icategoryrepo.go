package icategoryrepo

import (
	"context"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
)

// ICategoryRepository is an interface for category repository.
type ICategoryRepository interface {
	Insert(ctx context.Context, c category.Category) (category.Category, error)
	Update(ctx context.Context, c category.Category) (category.Category, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
}
