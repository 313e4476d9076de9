package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products map[int64]product.Product
	gets     int
	deleted  []int64
}

func (f *fakeRepo) Insert(_ context.Context, p product.Product) (product.Product, error) {
	return p, nil
}

func (f *fakeRepo) Update(_ context.Context, p product.Product) (product.Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return product.Product{}, apperr.NotFound("product %d not found", p.ID)
	}
	f.products[p.ID] = p

	return p, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)

	return nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (product.Product, error) {
	f.gets++
	p, ok := f.products[id]
	if !ok {
		return product.Product{}, apperr.NotFound("product %d not found", id)
	}

	return p, nil
}

func (f *fakeRepo) Query(context.Context, *product.QueryProductsModel) ([]product.Product, error) {
	return nil, nil
}

// unreachable points at a closed port so every cache call fails fast.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedRepository_FallsBackWhenCacheIsDown(t *testing.T) {
	repo := &fakeRepo{products: map[int64]product.Product{2: {ID: 2, Name: "Batata frita", PriceCents: 599}}}
	rdb := unreachable()
	defer rdb.Close()

	cached := NewCachedRepository(repo, rdb, time.Minute)

	p, err := cached.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Batata frita", p.Name)
	assert.Equal(t, 1, repo.gets)

	_, err = cached.Get(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCachedRepository_WritesGoThrough(t *testing.T) {
	repo := &fakeRepo{products: map[int64]product.Product{1: {ID: 1, Name: "Hamburguer"}}}
	rdb := unreachable()
	defer rdb.Close()

	cached := NewCachedRepository(repo, rdb, time.Minute)

	_, err := cached.Update(context.Background(), product.Product{ID: 1, Name: "X-Burguer"})
	require.NoError(t, err)
	assert.Equal(t, "X-Burguer", repo.products[1].Name)

	require.NoError(t, cached.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, repo.deleted)
}
