// Package cache provides the key/value stores the SDK uses for duplicate
// suppression: a notification fingerprint is written with a TTL and any
// identical notification inside that window is dropped.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrInvalidKey  = errors.New("invalid key")
	ErrClosed      = errors.New("store is closed")
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// SetNX writes the key only if it is absent and reports whether the
	// write happened. A false return means the key was already present,
	// i.e. the notification is a duplicate inside its window.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
