// Package cache stores processed chart frames keyed by their input fingerprint.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when no entry exists for the key.
var ErrCacheMiss = errors.New("cache: miss")

// DefaultTTL bounds how long remote entries live.
const DefaultTTL = 24 * time.Hour

// Store persists opaque payloads by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key joins the data and config fingerprints into a single cache key.
func Key(dataHash, configHash string) string {
	return dataHash + ":" + configHash
}
