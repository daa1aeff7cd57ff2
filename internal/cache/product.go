package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pattarapk/storefront/internal/model"
)

const cachedProductTimeToLive = 10 * time.Minute

// ProductCache is a read-through cache for the product catalog. Credential
// state is never cached anywhere - staleness there would defeat reuse
// detection.
type ProductCache interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	EvictByID(ctx context.Context, id string) error
	Cache(ctx context.Context, p *model.Product) error
}

type redisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache builds redis ProductCache
func NewRedisProductCache(client *redis.Client) ProductCache {
	return &redisProductCache{client: client}
}

func (r *redisProductCache) FindByID(ctx context.Context, id string) (*model.Product, error) {
	res, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var p model.Product
	if err := msgpack.Unmarshal([]byte(res), &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *redisProductCache) EvictByID(ctx context.Context, id string) error {
	if _, err := r.client.Del(ctx, r.key(id)).Result(); err != nil {
		return err
	}
	return nil
}

func (r *redisProductCache) Cache(ctx context.Context, p *model.Product) error {
	encoded, err := msgpack.Marshal(p)
	if err != nil {
		return err
	}

	_, err = r.client.SetNX(ctx, r.key(p.ID), encoded, cachedProductTimeToLive).Result()
	if err != nil {
		return err
	}
	return nil
}

func (r *redisProductCache) key(id string) string {
	return fmt.Sprintf("product:%s", id)
}
