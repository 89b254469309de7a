package competition

import (
	"fmt"
	"time"
)

// Competition is a federation event grouping many categories.
type Competition struct {
	ID        int64
	Name      string
	Place     string
	StartDate time.Time
	EndDate   time.Time
}

func (c Competition) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("competition id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}

	return nil
}

// Year is the calendar year stamped on diplomas. Competitions without a start date use fallback.
func (c Competition) Year(fallback time.Time) int {
	if c.StartDate.IsZero() {
		return fallback.Year()
	}
	return c.StartDate.Year()
}
