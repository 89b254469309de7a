package httpapi

import (
	"time"

	"github.com/riskibarqy/federation-awards/internal/domain/award"
	"github.com/riskibarqy/federation-awards/internal/domain/competition"
	"github.com/riskibarqy/federation-awards/internal/domain/results"
)

const (
	resultsStateOK           = "ok"
	resultsStateNoCategories = "no_categories"

	noCategoriesMessage = "No categories found for this competition."
)

type competitionDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Place     string  `json:"place,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

type competitionResultsDTO struct {
	Competition     competitionDTO      `json:"competition"`
	State           string              `json:"state"`
	Message         string              `json:"message,omitempty"`
	TotalAthletes   int                 `json:"totalAthletes"`
	TotalCategories int                 `json:"totalCategories"`
	Categories      []categoryResultDTO `json:"categories"`
	Medals          []medalCountDTO     `json:"medals"`
}

type categoryResultDTO struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Gender      string        `json:"gender"`
	Group       string        `json:"group,omitempty"`
	GroupGender string        `json:"groupGender,omitempty"`
	Rows        []awardRowDTO `json:"rows"`
}

type awardRowDTO struct {
	Index       int            `json:"index"`
	EntrantID   int64          `json:"entrantId"`
	Kind        string         `json:"kind"`
	DisplayName string         `json:"displayName"`
	Placement   string         `json:"placement"`
	Medal       string         `json:"medal,omitempty"`
	ClubName    string         `json:"clubName"`
	Members     []memberRowDTO `json:"members,omitempty"`
}

type memberRowDTO struct {
	AthleteID int64  `json:"athleteId"`
	Name      string `json:"name"`
	ClubName  string `json:"clubName"`
}

type medalCountDTO struct {
	ClubName string `json:"clubName"`
	Gold     int    `json:"gold"`
	Silver   int    `json:"silver"`
	Bronze   int    `json:"bronze"`
	Total    int    `json:"total"`
}

func toCompetitionDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:        c.ID,
		Name:      c.Name,
		Place:     c.Place,
		StartDate: formatDate(c.StartDate),
		EndDate:   formatDate(c.EndDate),
	}
}

// toCompetitionResultsDTO keeps rows in resolution order; Index addresses the
// row for the single-diploma route.
func toCompetitionResultsDTO(res results.CompetitionResults) competitionResultsDTO {
	out := competitionResultsDTO{
		Competition:     toCompetitionDTO(res.Competition),
		State:           resultsStateOK,
		TotalAthletes:   res.TotalAthletes(),
		TotalCategories: res.TotalCategories(),
		Categories:      make([]categoryResultDTO, 0, len(res.Categories)),
		Medals:          make([]medalCountDTO, 0),
	}
	if res.IsEmpty() {
		out.State = resultsStateNoCategories
		out.Message = noCategoriesMessage
		return out
	}

	for _, cat := range res.Categories {
		item := categoryResultDTO{
			ID:          cat.Category.ID,
			Name:        cat.Category.Name,
			Type:        cat.Category.Type.Label(),
			Gender:      cat.Category.Gender.Label(),
			Group:       cat.Category.GroupName,
			GroupGender: cat.Category.GroupGenderLine(),
			Rows:        make([]awardRowDTO, 0, len(cat.Rows)),
		}
		for i, row := range cat.Rows {
			item.Rows = append(item.Rows, toAwardRowDTO(i, row))
		}
		out.Categories = append(out.Categories, item)
	}
	for _, mc := range res.TallyByClub() {
		out.Medals = append(out.Medals, medalCountDTO{
			ClubName: mc.ClubName,
			Gold:     mc.Gold,
			Silver:   mc.Silver,
			Bronze:   mc.Bronze,
			Total:    mc.Total(),
		})
	}
	return out
}

func toAwardRowDTO(index int, row award.Row) awardRowDTO {
	out := awardRowDTO{
		Index:       index,
		EntrantID:   row.EntrantID,
		Kind:        string(row.Kind),
		DisplayName: row.DisplayName,
		Placement:   row.Placement.String(),
		Medal:       row.Placement.Medal(),
		ClubName:    row.ClubName,
	}
	for _, m := range row.Members {
		out.Members = append(out.Members, memberRowDTO{
			AthleteID: m.AthleteID,
			Name:      m.FullName(),
			ClubName:  m.ClubName,
		})
	}
	return out
}

func formatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	v := t.Format(time.DateOnly)
	return &v
}
