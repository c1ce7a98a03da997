package store

import "context"

// Keys the menu client persists under.
const (
	KeyTheme = "theme"
	KeyCart  = "cart"
)

// Store is the local persistent key-value port injected into the
// view-model. Implementations must be safe for use from a single
// goroutine; the view-model never calls it concurrently.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
