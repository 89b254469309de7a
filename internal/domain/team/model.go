package team

import (
	"fmt"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
)

// Team is a roster entry of a team category.
type Team struct {
	ID          int64
	Name        string
	CategoryIDs []int64
	Members     []Member
}

// Member wraps the athlete summary the API embeds in team payloads. The
// summary carries names only; club attribution comes from the athlete index.
type Member struct {
	ID      int64
	Athlete athlete.Athlete
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}

	return nil
}

func (t Team) HasMembers() bool {
	return len(t.Members) > 0
}

// AthleteIDs lists member athlete ids in roster order, skipping unknown ids.
func (t Team) AthleteIDs() []int64 {
	out := make([]int64, 0, len(t.Members))
	for _, m := range t.Members {
		if m.Athlete.ID > 0 {
			out = append(out, m.Athlete.ID)
		}
	}
	return out
}
