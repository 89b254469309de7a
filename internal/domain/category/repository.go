package category

import "context"

// Repository describes category reads needed by use cases. The upstream API
// has no competition filter, so callers filter List results themselves.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
}
