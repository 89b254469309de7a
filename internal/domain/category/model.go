package category

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
)

type Type string

const (
	TypeSolo  Type = "solo"
	TypeFight Type = "fight"
	TypeTeams Type = "teams"
)

func (t Type) Kind() award.Kind {
	if t == TypeTeams {
		return award.KindTeam
	}
	return award.KindIndividual
}

func (t Type) Label() string {
	return titleCase(string(t))
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderMixt   Gender = "mixt"
)

func (g Gender) Label() string {
	return titleCase(string(g))
}

// Enrollment is one athlete registered in an individual category.
type Enrollment struct {
	Athlete athlete.Athlete
	Weight  float64
}

// WinnerRef is a podium reference as received: an id, a name, or both.
type WinnerRef struct {
	ID   int64
	Name string
}

func (r WinnerRef) IsZero() bool {
	return r.ID <= 0 && strings.TrimSpace(r.Name) == ""
}

// Category is a competition division. Its roster is either Enrollments
// (solo/fight) or Teams (teams), never both.
type Category struct {
	ID              int64
	CompetitionID   int64
	CompetitionName string
	Name            string
	Type            Type
	Gender          Gender
	GroupID         int64
	GroupName       string

	Enrollments []Enrollment
	// Teams keeps roster order. Entries may carry only an id.
	Teams []team.Team

	FirstPlace  int64
	SecondPlace int64
	ThirdPlace  int64

	FirstPlaceTeam  WinnerRef
	SecondPlaceTeam WinnerRef
	ThirdPlaceTeam  WinnerRef

	// Winners is the canonical podium, filled by ingestion normalization.
	Winners award.Winners
}

func (c Category) Kind() award.Kind {
	return c.Type.Kind()
}

func (c Category) IsTeam() bool {
	return c.Type.Kind() == award.KindTeam
}

// RosterSize counts enrollments or teams depending on the category kind.
func (c Category) RosterSize() int {
	if c.IsTeam() {
		return len(c.Teams)
	}
	return len(c.Enrollments)
}

func (c Category) TeamWinnerRefs() [3]WinnerRef {
	return [3]WinnerRef{c.FirstPlaceTeam, c.SecondPlaceTeam, c.ThirdPlaceTeam}
}

// GroupGenderLine is the "group - gender" line printed on diplomas.
func (c Category) GroupGenderLine() string {
	parts := make([]string, 0, 2)
	if g := strings.TrimSpace(c.GroupName); g != "" {
		parts = append(parts, g)
	}
	if gl := c.Gender.Label(); gl != "" {
		parts = append(parts, gl)
	}
	return strings.Join(parts, " - ")
}

func (c Category) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("category id is required")
	}
	switch c.Type {
	case TypeSolo, TypeFight:
		if len(c.Teams) > 0 {
			return fmt.Errorf("category %d: individual category lists teams", c.ID)
		}
	case TypeTeams:
		if len(c.Enrollments) > 0 {
			return fmt.Errorf("category %d: team category lists enrollments", c.ID)
		}
	default:
		return fmt.Errorf("category %d: unknown type %q", c.ID, c.Type)
	}

	return nil
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
