package ports

import "context"

// CacheService provides read-through caching. The core never touches it;
// caching is layered on by the presentation layer so the usecases stay pure.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
