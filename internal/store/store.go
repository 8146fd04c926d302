package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key is absent or expired.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is a small key-value persistence interface. The browser client kept
// these flags in localStorage; here the backend is injectable so it can be
// swapped between process memory and Redis, and mocked in tests.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
