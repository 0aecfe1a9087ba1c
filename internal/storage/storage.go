package storage

import "context"

// Package storage contains the content store abstraction: byte storage keyed
// by generated content ids, with derived size variants addressed by a
// "<key>_<size>" suffix. Two backends exist: local disk and an S3-compatible
// object store.

// ContentStore persists raw file bytes under opaque keys.
type ContentStore interface {
	// Write stores data under key, creating the root namespace on first use.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the bytes stored under key.
	Read(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether key has been written. Derived variants may lag
	// behind their base key; callers treat a missing variant as not found.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping reports whether the backing store is usable.
	Ping(ctx context.Context) bool
}

// VariantKey addresses a derived size variant of a stored object.
func VariantKey(key, size string) string {
	return key + "_" + size
}
