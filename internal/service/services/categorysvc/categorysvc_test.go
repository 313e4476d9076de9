package categorysvc

import (
	"context"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categories map[int64]category.Category
	deleted    []int64
}

func (f *fakeRepo) Insert(_ context.Context, c category.Category) (category.Category, error) {
	c.ID = int64(len(f.categories) + 1)
	f.categories[c.ID] = c

	return c, nil
}

func (f *fakeRepo) Update(_ context.Context, c category.Category) (category.Category, error) {
	if _, ok := f.categories[c.ID]; !ok {
		return category.Category{}, apperr.NotFound("category %d not found", c.ID)
	}
	f.categories[c.ID] = c

	return c, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.categories, id)

	return nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (category.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return category.Category{}, apperr.NotFound("category %d not found", id)
	}

	return c, nil
}

func (f *fakeRepo) List(context.Context) ([]category.Category, error) {
	out := []category.Category{}
	for _, c := range f.categories {
		out = append(out, c)
	}

	return out, nil
}

type fakeProducts []product.Product

func (f fakeProducts) Query(_ context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	var out []product.Product
	for _, p := range f {
		for _, id := range filter.CategoryIds {
			if p.CategoryID == id {
				out = append(out, p)
			}
		}
	}

	return out, nil
}

func newService() (*CategoryService, *fakeRepo) {
	repo := &fakeRepo{categories: map[int64]category.Category{
		1: {ID: 1, Name: "Lanche", Description: "Lanches"},
		2: {ID: 2, Name: "Sobremesa", Description: "Doces"},
	}}

	return &CategoryService{repo: repo, products: fakeProducts{{ID: 1, CategoryID: 1}}}, repo
}

func TestSave(t *testing.T) {
	svc, repo := newService()

	c, err := svc.Save(context.Background(), category.Category{Name: "Bebidas", Description: "Geladas"})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", repo.categories[c.ID].Name)

	invalid := []category.Category{
		{Description: "Sem nome"},
		{Name: "Sem descrição"},
		{Name: strings.Repeat("a", 101), Description: "x"},
	}
	for _, c := range invalid {
		_, err := svc.Save(context.Background(), c)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%+v", c)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Update(context.Background(), category.Category{ID: 9, Name: "X", Description: "Y"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo := newService()

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), apperr.ErrValidation, "category with products")
	assert.ErrorIs(t, svc.Delete(context.Background(), 9), apperr.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.Equal(t, []int64{2}, repo.deleted)
}
