package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZaguanLabs/transtree"
)

// Redis is a Redis-backed lookup store for translations shared across
// processes. Entries are plain strings under
// <prefix><locale>:<namespace>:<key>.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	fallback  string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL            string // Redis connection URL (e.g., "redis://localhost:6379")
	TTL            int    // TTL in seconds for saved entries (0 = no expiration)
	KeyPrefix      string // Prefix for all keys (default: "transtree:")
	FallbackLocale string // Final locale of the fallback chain (default: "en")
}

// NewRedis connects to Redis with the given configuration and verifies the
// connection with a ping.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &transtree.StoreError{Message: "invalid redis url", Cause: err}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &transtree.StoreError{Message: "redis unreachable", Cause: err}
	}

	return NewRedisFromClient(client, cfg), nil
}

// NewRedisFromClient wraps an existing Redis client; no ping is issued.
func NewRedisFromClient(client *redis.Client, cfg RedisConfig) *Redis {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "transtree:"
	}

	fallback := cfg.FallbackLocale
	if fallback == "" {
		fallback = DefaultFallbackLocale
	}

	ttl := time.Duration(cfg.TTL) * time.Second
	if cfg.TTL <= 0 {
		ttl = 0
	}

	return &Redis{
		client:    client,
		ttl:       ttl,
		keyPrefix: prefix,
		fallback:  fallback,
	}
}

func (s *Redis) storageKey(locale, ns, key string) string {
	return s.keyPrefix + locale + ":" + ns + ":" + key
}

// Lookup resolves a key through the candidate-key order and the locale
// fallback chain. Transport errors read as a miss so the render can fall
// back to the default value.
func (s *Redis) Lookup(ctx context.Context, req transtree.LookupRequest) (string, bool) {
	for _, locale := range localeChain(req.Locale, s.fallback) {
		for _, key := range candidateKeys(req, locale) {
			val, err := s.client.Get(ctx, s.storageKey(locale, req.Namespace, key)).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return "", false
			}
			return val, true
		}
	}
	return "", false
}

// Save stores a missing translation; it satisfies the Translator's Saver.
func (s *Redis) Save(ctx context.Context, locale, ns, key, value string) error {
	return s.client.Set(ctx, s.storageKey(canonicalLocale(locale), ns, key), value, s.ttl).Err()
}

// Ping tests the Redis connection.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Redis) Close() error {
	return s.client.Close()
}

var _ transtree.Backend = (*Redis)(nil)
var _ transtree.Saver = (*Redis)(nil)
