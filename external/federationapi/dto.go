package federationapi

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/federation-awards/internal/domain/athlete"
	"github.com/riskibarqy/federation-awards/internal/domain/category"
	"github.com/riskibarqy/federation-awards/internal/domain/club"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/team"
)

var nullLiteral = []byte("null")

// ref is a foreign key as the API sends it: a number, a numeric string, an
// embedded {id, name} object, a bare name, or null.
type ref struct {
	ID   int64
	Name string
}

func (r *ref) UnmarshalJSON(data []byte) error {
	*r = ref{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			ID   flexInt `json:"id"`
			Name string  `json:"name"`
		}
		if err := sonic.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		r.ID = int64(obj.ID)
		r.Name = strings.TrimSpace(obj.Name)
		return nil
	case '"':
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if id, err := strconv.ParseInt(text, 10, 64); err == nil {
			r.ID = id
			return nil
		}
		r.Name = text
		return nil
	default:
		var id flexInt
		if err := id.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		r.ID = int64(id)
		return nil
	}
}

// flexInt accepts integers, floats with no fraction, numeric strings and null.
type flexInt int64

func (v *flexInt) UnmarshalJSON(data []byte) error {
	*v = 0
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		*v = flexInt(n)
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	*v = flexInt(f)
	return nil
}

// flexFloat accepts numbers, numeric strings and null. Unparseable strings decode as zero.
type flexFloat float64

func (v *flexFloat) UnmarshalJSON(data []byte) error {
	*v = 0
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	*v = flexFloat(f)
	return nil
}

// listPage covers both a bare JSON array and a paginated {results, next} envelope.
type listPage[T any] struct {
	Items []T
	Next  string
}

func (p *listPage[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}
	if trimmed[0] == '[' {
		return sonic.Unmarshal(trimmed, &p.Items)
	}

	var envelope struct {
		Results []T     `json:"results"`
		Next    *string `json:"next"`
	}
	if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	p.Items = envelope.Results
	if envelope.Next != nil {
		p.Next = strings.TrimSpace(*envelope.Next)
	}
	return nil
}

type competitionDTO struct {
	ID        flexInt `json:"id"`
	Name      string  `json:"name"`
	Place     string  `json:"place"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

func (d competitionDTO) toDomain() competition.Competition {
	return competition.Competition{
		ID:        int64(d.ID),
		Name:      strings.TrimSpace(d.Name),
		Place:     strings.TrimSpace(d.Place),
		StartDate: parseDate(d.StartDate),
		EndDate:   parseDate(d.EndDate),
	}
}

type clubDTO struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
}

func (d clubDTO) toDomain() club.Club {
	return club.Club{ID: int64(d.ID), Name: strings.TrimSpace(d.Name)}
}

// athleteDTO also accepts a bare id where the API does not embed the athlete.
type athleteDTO struct {
	ID          flexInt `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Club        ref     `json:"club"`
	DateOfBirth string  `json:"date_of_birth"`
}

func (d *athleteDTO) UnmarshalJSON(data []byte) error {
	*d = athleteDTO{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}
	if trimmed[0] != '{' {
		return d.ID.UnmarshalJSON(trimmed)
	}

	type plain athleteDTO
	var out plain
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*d = athleteDTO(out)
	return nil
}

func (d athleteDTO) toDomain() athlete.Athlete {
	return athlete.Athlete{
		ID:          int64(d.ID),
		FirstName:   strings.TrimSpace(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		ClubID:      d.Club.ID,
		DateOfBirth: parseDate(d.DateOfBirth),
	}
}

type memberDTO struct {
	ID      flexInt    `json:"id"`
	Athlete athleteDTO `json:"athlete"`
}

// teamDTO also accepts a bare id, which is how category rosters may list teams.
type teamDTO struct {
	ID         flexInt     `json:"id"`
	Name       string      `json:"name"`
	Categories []ref       `json:"categories"`
	Members    []memberDTO `json:"members"`
}

func (d *teamDTO) UnmarshalJSON(data []byte) error {
	*d = teamDTO{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil
	}
	if trimmed[0] != '{' {
		return d.ID.UnmarshalJSON(trimmed)
	}

	type plain teamDTO
	var out plain
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*d = teamDTO(out)
	return nil
}

func (d teamDTO) toDomain() team.Team {
	out := team.Team{
		ID:   int64(d.ID),
		Name: strings.TrimSpace(d.Name),
	}
	for _, c := range d.Categories {
		if c.ID > 0 {
			out.CategoryIDs = append(out.CategoryIDs, c.ID)
		}
	}
	if len(d.Members) > 0 {
		out.Members = make([]team.Member, 0, len(d.Members))
		for _, m := range d.Members {
			out.Members = append(out.Members, team.Member{ID: int64(m.ID), Athlete: m.Athlete.toDomain()})
		}
	}
	return out
}

type enrollmentDTO struct {
	Athlete athleteDTO `json:"athlete"`
	Weight  flexFloat  `json:"weight"`
}

type categoryDTO struct {
	ID               flexInt         `json:"id"`
	Name             string          `json:"name"`
	Competition      ref             `json:"competition"`
	CompetitionName  string          `json:"competition_name"`
	Group            ref             `json:"group"`
	GroupName        string          `json:"group_name"`
	Type             string          `json:"type"`
	Gender           string          `json:"gender"`
	EnrolledAthletes []enrollmentDTO `json:"enrolled_athletes"`
	Teams            []teamDTO       `json:"teams"`

	FirstPlace  ref `json:"first_place"`
	SecondPlace ref `json:"second_place"`
	ThirdPlace  ref `json:"third_place"`

	FirstPlaceTeam  ref `json:"first_place_team"`
	SecondPlaceTeam ref `json:"second_place_team"`
	ThirdPlaceTeam  ref `json:"third_place_team"`
}

func (d categoryDTO) toDomain() category.Category {
	out := category.Category{
		ID:              int64(d.ID),
		CompetitionID:   d.Competition.ID,
		CompetitionName: firstNonEmpty(d.CompetitionName, d.Competition.Name),
		Name:            strings.TrimSpace(d.Name),
		Type:            category.Type(strings.ToLower(strings.TrimSpace(d.Type))),
		Gender:          category.Gender(strings.ToLower(strings.TrimSpace(d.Gender))),
		GroupID:         d.Group.ID,
		GroupName:       firstNonEmpty(d.GroupName, d.Group.Name),
		FirstPlace:      d.FirstPlace.ID,
		SecondPlace:     d.SecondPlace.ID,
		ThirdPlace:      d.ThirdPlace.ID,
		FirstPlaceTeam:  category.WinnerRef(d.FirstPlaceTeam),
		SecondPlaceTeam: category.WinnerRef(d.SecondPlaceTeam),
		ThirdPlaceTeam:  category.WinnerRef(d.ThirdPlaceTeam),
	}

	if len(d.EnrolledAthletes) > 0 {
		out.Enrollments = make([]category.Enrollment, 0, len(d.EnrolledAthletes))
		for _, e := range d.EnrolledAthletes {
			out.Enrollments = append(out.Enrollments, category.Enrollment{
				Athlete: e.Athlete.toDomain(),
				Weight:  float64(e.Weight),
			})
		}
	}
	if len(d.Teams) > 0 {
		out.Teams = make([]team.Team, 0, len(d.Teams))
		for _, t := range d.Teams {
			out.Teams = append(out.Teams, t.toDomain())
		}
	}
	return out
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
