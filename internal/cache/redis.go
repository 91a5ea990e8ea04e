package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/tourquote/internal/observability"
)

// Redis is a read-through JSON cache. Values are marshalled on Set and
// decoded into the caller's destination on Get; a miss is (false, nil).
type Redis struct {
	c *redis.Client
}

func New(addr, password string, db int) *Redis {
	return &Redis{c: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Redis) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, keys...).Err()
}

// DelByPrefix removes every key under the given prefix. Used to drop
// all cached season-rate trees after a validity write; the key space
// is small so SCAN is fine.
func (r *Redis) DelByPrefix(ctx context.Context, prefix string) error {
	iter := r.c.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return r.Del(ctx, keys...)
}
