package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const namespace = "fx:rate"

// RateCache shares fetched rates between service instances. Keys expire
// after ttl on the Redis side, so a value is never served past its TTL.
type RateCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRateCache(client redis.UniversalClient, ttl time.Duration) *RateCache {
	return &RateCache{client: client, ttl: ttl}
}

func key(from, to string) string {
	return fmt.Sprintf("%s:%s:%s", namespace, from, to)
}

// GetRate reports false without error when the key is absent or expired.
// The returned duration is the key's remaining lifetime.
func (c *RateCache) GetRate(ctx context.Context, from, to string) (decimal.Decimal, time.Duration, bool, error) {
	k := key(from, to)
	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, k)
	ttlCmd := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return decimal.Zero, 0, false, err
	}

	raw, err := getCmd.Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, 0, false, nil
	}
	if err != nil {
		return decimal.Zero, 0, false, err
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, 0, false, fmt.Errorf("corrupt cached rate %q: %w", raw, err)
	}
	return rate, ttlCmd.Val(), true, nil
}

func (c *RateCache) SetRate(ctx context.Context, from, to string, rate decimal.Decimal) error {
	return c.client.Set(ctx, key(from, to), rate.String(), c.ttl).Err()
}

func (c *RateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RateCache) Close() error {
	return c.client.Close()
}
