package athlete

import "context"

type Repository interface {
	List(ctx context.Context) ([]Athlete, error)
	GetByID(ctx context.Context, athleteID int64) (Athlete, bool, error)
}
