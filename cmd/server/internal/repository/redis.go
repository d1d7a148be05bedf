package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lastprice:"

// Compile-time check to ensure RedisStore implements PriceStore
var _ PriceStore = (*RedisStore)(nil)

// RedisStore keeps last prices in Redis so multiple server instances share
// one percent-change baseline.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) LastPrice(ctx context.Context, symbol string) (float64, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+symbol).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

func (r *RedisStore) SetLastPrice(ctx context.Context, symbol string, price float64) error {
	return r.client.Set(ctx, keyPrefix+symbol, strconv.FormatFloat(price, 'f', -1, 64), 0).Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }
