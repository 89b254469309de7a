package athlete

import (
	"strings"
	"time"
)

// Athlete is a registered federation member. Profile fields beyond the
// club reference are carried for display only.
type Athlete struct {
	ID          int64
	FirstName   string
	LastName    string
	ClubID      int64
	DateOfBirth time.Time
}

// FullName returns "First Last", or an empty string when both parts are blank.
func (a Athlete) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

func (a Athlete) HasName() bool {
	return a.FullName() != ""
}
