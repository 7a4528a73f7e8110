// internal/app/wizardstate/redis.go
package wizardstate

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore backs wizard state with Redis so multiple dashboard replicas
// can serve the same wizard run. Keys expire with the run TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. A non-positive ttl defaults
// to 4 hours, matching the memory backend.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func valueKey(runID, key string) string { return "wizard:" + runID + ":" + key }
func indexKey(runID string) string      { return "wizard:" + runID + ":keys" }

func (r *RedisStore) Set(ctx context.Context, runID, key string, value []byte) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, valueKey(runID, key), value, r.ttl)
	pipe.SAdd(ctx, indexKey(runID), key)
	pipe.Expire(ctx, indexKey(runID), r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Get(ctx context.Context, runID, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, valueKey(runID, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisStore) Remove(ctx context.Context, runID, key string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, valueKey(runID, key))
	pipe.SRem(ctx, indexKey(runID), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Clear(ctx context.Context, runID string) error {
	keys, err := r.client.SMembers(ctx, indexKey(runID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, valueKey(runID, k))
	}
	del = append(del, indexKey(runID))

	return r.client.Del(ctx, del...).Err()
}
