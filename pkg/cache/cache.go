// Package cache provides the result cache for grammar-check responses:
// deterministic key derivation, a Redis-backed store with TTL expiry,
// and a no-op store used when no Redis address is configured.
//
// Caching is strictly best-effort. Every Store operation swallows
// backend failures: a failed Get is a miss, a failed Set is silent.
// Callers never see a cache error on the primary request path.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/proofly-ai/proofly/pkg/models"
)

// DefaultTTL is how long a cached result stays valid.
const DefaultTTL = 24 * time.Hour

// Store is the result cache consumed by the orchestrator.
type Store interface {
	// Get returns the cached error list for key, or (nil, false) on a
	// miss, a disabled store, or any backend failure.
	Get(ctx context.Context, key string) ([]models.GrammarError, bool)

	// Set stores an error list under key with the given TTL.
	// Best-effort: failures are logged, never returned.
	Set(ctx context.Context, key string, errs []models.GrammarError, ttl time.Duration)

	// IncrementProviderUsage bumps the usage counter for a provider.
	IncrementProviderUsage(ctx context.Context, provider string)

	// TrackSession records a session marker and bumps the total
	// session counter the first time a session is seen.
	TrackSession(ctx context.Context, sessionID string)

	// Exists reports whether key is present in the store.
	Exists(ctx context.Context, key string) bool

	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// Key derives the cache key for a (provider, language, text) triple.
// It is pure: identical inputs always yield an identical key. The text
// digest is truncated to 16 hex characters, so unrelated texts sharing
// a provider and language can collide in principle.
func Key(provider, language, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("grammar:%s:%s:%s", provider, language, hex.EncodeToString(sum[:8]))
}

// HashText returns the 16-hex-char content digest used in cache keys,
// also reused by the audit log to identify texts without storing them.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
