package club

import "context"

type Repository interface {
	List(ctx context.Context) ([]Club, error)
	GetByID(ctx context.Context, clubID int64) (Club, bool, error)
}
