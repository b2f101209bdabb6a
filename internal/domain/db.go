package domain

import "context"

// Database defines lifecycle operations for the local client-state database.
// Each implementation owns its own migration files and strategy.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// TokenKey is the fixed storage key under which the bearer token is persisted.
const TokenKey = "token"

// StateStore is the persistent client-side key/value storage. Writes are
// atomic per key; readers must tolerate a key disappearing between calls.
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
