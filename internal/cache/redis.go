package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/logging"
)

func init() {
	redis.SetLogger(&logging.VoidLogger{})
}

const (
	// DefaultRedisURL is used when NewRedis receives an empty URL.
	DefaultRedisURL = "redis://localhost:6379/0"
	// DefaultPrefix namespaces every key written by RedisStore.
	DefaultPrefix = "mintwaterfall:frame:"
)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the expiry applied to every Set. Zero disables expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// WithPrefix overrides the key namespace.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithHook installs a go-redis hook, such as a command tracker.
func WithHook(h redis.Hook) RedisOption {
	return func(s *RedisStore) {
		if h != nil {
			s.redis.AddHook(h)
		}
	}
}

// RedisStore keeps payloads in Redis so separate processes share results.
type RedisStore struct {
	redis           *redis.Client
	displayRedisURL string
	prefix          string
	ttl             time.Duration
}

// NewRedis creates a store configured from a Redis URL.
func NewRedis(redisURL string, opts ...RedisOption) (*RedisStore, error) {
	if redisURL == "" {
		redisURL = DefaultRedisURL
	}

	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	ropts.MaxRetries = -1
	ropts.DialTimeout = 2 * time.Second
	ropts.ReadTimeout = 2 * time.Second
	ropts.WriteTimeout = 2 * time.Second
	ropts.PoolSize = 2

	return newRedisStore(redis.NewClient(ropts), sanitizeRedisURL(redisURL), opts...), nil
}

func newRedisStore(rdb *redis.Client, display string, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		redis:           rdb,
		displayRedisURL: display,
		prefix:          DefaultPrefix,
		ttl:             DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DisplayRedisURL returns a sanitized URL safe for display.
func (s *RedisStore) DisplayRedisURL() string {
	return s.displayRedisURL
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Get fetches the payload stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.redis.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, nil
}

// Set stores value under key with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.redis.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}

func sanitizeRedisURL(redisURL string) string {
	if redisURL == "" {
		return ""
	}
	parsed, err := url.Parse(redisURL)
	if err != nil {
		return redisURL
	}
	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = nil
		} else {
			parsed.User = url.User(username)
		}
	}
	return parsed.String()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
