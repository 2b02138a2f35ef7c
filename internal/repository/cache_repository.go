package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

const (
	defaultCacheNamespace = "college-admin"
	scanBatch             = 200
)

// CacheRepository keeps JSON stats snapshots in Redis under a namespace so
// several deployments can share one instance. A nil client turns every read
// into a miss and every write into a no-op.
type CacheRepository struct {
	client    *redis.Client
	namespace string
}

// NewCacheRepository wraps client. An empty namespace uses the default.
func NewCacheRepository(client *redis.Client, namespace string) *CacheRepository {
	if namespace == "" {
		namespace = defaultCacheNamespace
	}
	return &CacheRepository{client: client, namespace: namespace}
}

func (r *CacheRepository) enabled() bool {
	return r != nil && r.client != nil
}

func (r *CacheRepository) key(k string) string {
	return r.namespace + ":" + k
}

// Get decodes the snapshot stored under key into dest, or returns
// ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if !r.enabled() {
		return appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("read cached %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A snapshot from an older release; drop it and recompute.
		r.client.Unlink(ctx, r.key(key)) //nolint:errcheck
		return appErrors.ErrCacheMiss
	}
	return nil
}

// Set stores value under key for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !r.enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("write cached %s: %w", key, err)
	}
	return nil
}

// Delete drops exact keys.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if !r.enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Unlink(ctx, full...).Err(); err != nil {
		return fmt.Errorf("drop cached %v: %w", keys, err)
	}
	return nil
}

// DeleteByPattern drops every key matching pattern, for example
// "stats:fees:*" to forget every fee stats filter combination.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if !r.enabled() {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.key(pattern), scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan cached %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("drop cached %s: %w", pattern, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
