package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/models"
)

// Redis is a Store backed by a Redis instance. Cached entries are
// JSON-encoded error lists; counters and session markers live under
// usage:{provider}:count, session:{id}, and sessions:total.
type Redis struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewRedis creates a Redis store from the given connection settings.
func NewRedis(cfg config.RedisConfig, sessionTTL time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Redis{client: client, sessionTTL: sessionTTL}
}

// Get retrieves a cached error list. Any backend failure is treated
// as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]models.GrammarError, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return nil, false
	}

	var errs []models.GrammarError
	if err := json.Unmarshal(data, &errs); err != nil {
		log.Printf("cache decode %s: %v", key, err)
		return nil, false
	}
	return errs, true
}

// Set stores an error list under key. A zero ttl falls back to
// DefaultTTL. Failures are logged and swallowed.
func (r *Redis) Set(ctx context.Context, key string, errs []models.GrammarError, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(errs)
	if err != nil {
		log.Printf("cache encode %s: %v", key, err)
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// IncrementProviderUsage bumps usage:{provider}:count.
func (r *Redis) IncrementProviderUsage(ctx context.Context, provider string) {
	key := fmt.Sprintf("usage:%s:count", provider)
	if err := r.client.Incr(ctx, key).Err(); err != nil {
		log.Printf("usage incr %s: %v", key, err)
	}
}

// TrackSession writes a session marker with the session TTL and bumps
// sessions:total the first time the session is seen.
func (r *Redis) TrackSession(ctx context.Context, sessionID string) {
	key := "session:" + sessionID
	seen, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("session exists %s: %v", key, err)
		return
	}
	if seen == 0 {
		if err := r.client.Incr(ctx, "sessions:total").Err(); err != nil {
			log.Printf("session total incr: %v", err)
		}
	}
	if err := r.client.Set(ctx, key, time.Now().UnixMilli(), r.sessionTTL).Err(); err != nil {
		log.Printf("session track %s: %v", key, err)
	}
}

// Exists reports whether key is present.
func (r *Redis) Exists(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("cache exists %s: %v", key, err)
		return false
	}
	return n > 0
}

// Ping verifies connectivity to Redis.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// UsageCount returns the usage counter for a provider. Missing
// counters read as zero.
func (r *Redis) UsageCount(ctx context.Context, provider string) (int64, error) {
	n, err := r.client.Get(ctx, fmt.Sprintf("usage:%s:count", provider)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage count %s: %w", provider, err)
	}
	return n, nil
}

// SessionTotal returns the total number of sessions ever tracked.
func (r *Redis) SessionTotal(ctx context.Context) (int64, error) {
	n, err := r.client.Get(ctx, "sessions:total").Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("session total: %w", err)
	}
	return n, nil
}

// Clear deletes all cached results (grammar:* keys) and returns the
// number of keys removed.
func (r *Redis) Clear(ctx context.Context) (int64, error) {
	var deleted int64
	iter := r.client.Scan(ctx, 0, "grammar:*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := r.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache clear: %w", err)
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan: %w", err)
	}
	return deleted, nil
}
