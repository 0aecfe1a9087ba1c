package session

import (
	"context"
	"time"
)

// Package session contains the ephemeral key-value store used for token →
// user-id bindings. Keys expire on their own after the configured TTL;
// readers must treat an absent key as a normal unauthenticated state.

// Store is the contract for the session key-value store.
type Store interface {
	// Set binds key to value for ttl. The binding disappears on its own once
	// the TTL elapses.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value bound to key, or "" when the key is absent or
	// expired. Absence is not an error.
	Get(ctx context.Context, key string) (string, error)

	// Del removes the binding for key.
	Del(ctx context.Context, key string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) bool
}
