package interfaces

import "context"

// KVStore is a persistent key-value namespace
type KVStore interface {
	// Get returns the value stored under key. A missing key yields a nil
	// value and a nil error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the value stored under key
	Put(ctx context.Context, key string, value []byte) error

	Close() error
}
