package award

import (
	"slices"
	"strings"
)

const (
	UnknownClub    = "Unknown Club"
	UnknownAthlete = "Unknown Athlete"
	NoMembers      = "No members"

	// MemberSeparator joins team member labels in a team's display name.
	MemberSeparator = " + "
)

type Kind string

const (
	KindIndividual Kind = "individual"
	KindTeam       Kind = "team"
)

// MemberRow is one resolved athlete of a team row.
type MemberRow struct {
	AthleteID int64
	FirstName string
	LastName  string
	ClubName  string
}

func (m MemberRow) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
	if name == "" {
		return UnknownAthlete
	}
	return name
}

// Label renders "First Last (Club)".
func (m MemberRow) Label() string {
	return EntrantLabel(m.FullName(), m.ClubName)
}

// Row is one resolved line of a category's results table.
type Row struct {
	EntrantID   int64
	Kind        Kind
	DisplayName string
	// AwardeeName is the name printed on an individual diploma; DisplayName adds the club.
	AwardeeName string
	Placement   Placement
	ClubName    string
	Members     []MemberRow
}

func EntrantLabel(name, club string) string {
	if club == "" {
		club = UnknownClub
	}
	return name + " (" + club + ")"
}

// SortByPlacement returns a copy ordered First, Second, Third, Participant.
// Rows sharing a placement keep their resolution order.
func SortByPlacement(rows []Row) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		return int(a.Placement) - int(b.Placement)
	})
	return out
}
