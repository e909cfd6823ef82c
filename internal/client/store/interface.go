package store

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Store is a Repository that can group writes and be closed.
type Store interface {
	Repository
	WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
	Close() error
}
