package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/redis/go-redis/v9"
)

// CachedRepository is a read-through cache in front of a product repository.
// Cache failures are logged and the call falls through to the wrapped repository.
type CachedRepository struct {
	iproductrepo.IProductRepository
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCachedRepository wraps repo with a Redis cache whose entries live for ttl.
func NewCachedRepository(repo iproductrepo.IProductRepository, rdb redis.Cmdable, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		IProductRepository: repo,
		rdb:                rdb,
		ttl:                ttl,
	}
}

func key(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// Get returns the cached product or loads and caches it.
func (r *CachedRepository) Get(ctx context.Context, id int64) (product.Product, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var p product.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
		slog.Warn("Dropping malformed product cache entry", "product_id", id)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Product cache read failed", "product_id", id, "error", err)
	}

	p, err := r.IProductRepository.Get(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	r.store(ctx, p)

	return p, nil
}

// Update writes through and evicts the cache entry.
func (r *CachedRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	updated, err := r.IProductRepository.Update(ctx, p)
	if err != nil {
		return product.Product{}, err
	}

	r.evict(ctx, p.ID)

	return updated, nil
}

// Delete removes the product and its cache entry.
func (r *CachedRepository) Delete(ctx context.Context, id int64) error {
	if err := r.IProductRepository.Delete(ctx, id); err != nil {
		return err
	}

	r.evict(ctx, id)

	return nil
}

func (r *CachedRepository) store(ctx context.Context, p product.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		slog.Warn("Failed to encode product for cache", "product_id", p.ID, "error", err)

		return
	}

	if err := r.rdb.Set(ctx, key(p.ID), raw, r.ttl).Err(); err != nil {
		slog.Warn("Product cache write failed", "product_id", p.ID, "error", err)
	}
}

func (r *CachedRepository) evict(ctx context.Context, id int64) {
	if err := r.rdb.Del(ctx, key(id)).Err(); err != nil {
		slog.Warn("Product cache eviction failed", "product_id", id, "error", err)
	}
}
