package knowledge

import "context"

// Reader serves knowledge lookups. Implementations return active items only.
type Reader interface {
	Search(ctx context.Context, query string, filter Filter, limit int) ([]Match, error)
	ByCategory(ctx context.Context, category string) ([]Item, error)
	ByPhase(ctx context.Context, phase int) ([]Item, error)
}

// Writer mutates the durable store. Failures are always returned to the caller.
type Writer interface {
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, id string, update Update, actor string) (Item, error)
	Deactivate(ctx context.Context, id, actor string) error
	Delete(ctx context.Context, id string) error
}

// Store is a durable knowledge backend.
type Store interface {
	Reader
	Writer
}
