package team

import "context"

// Repository describes team reads needed by use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
}
